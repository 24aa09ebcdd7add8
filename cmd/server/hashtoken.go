package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

// newHashTokenCommand prints the bcrypt hash to put in ADMIN_TOKEN_HASH.
func newHashTokenCommand() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-token [token]",
		Short: "Hash an admin token for ADMIN_TOKEN_HASH",
		Long: `Hash an admin token with bcrypt. The token is read from the argument
or, when omitted, from the first line of stdin.

Example:
  welcome hash-token front-desk-secret
  echo front-desk-secret | welcome hash-token`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := readToken(cmd, args)
			if err != nil {
				return err
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(token), cost)
			if err != nil {
				return fmt.Errorf("hash token: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return err
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}

func readToken(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return strings.TrimSpace(args[0]), nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	token := strings.TrimSpace(line)
	if token == "" {
		if err != nil {
			return "", fmt.Errorf("read token: %w", err)
		}
		return "", errors.New("token is empty")
	}
	return token, nil
}
