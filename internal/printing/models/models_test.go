package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"welcome/pkg/domain"
)

func TestJobComplete(t *testing.T) {
	now := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)

	t.Run("success finishes the job", func(t *testing.T) {
		j := &Job{ID: 1, Status: StatusOutstanding}
		assert.True(t, j.Complete(nil, now))
		assert.Equal(t, StatusFinished, j.Status)
		assert.Equal(t, now, j.CompletedAt)
	})

	t.Run("error fails the job", func(t *testing.T) {
		j := &Job{ID: 2, Status: StatusOutstanding}
		assert.True(t, j.Complete(errors.New("out of labels"), now))
		assert.Equal(t, StatusFailed, j.Status)
		assert.Equal(t, "out of labels", j.Error)
	})

	t.Run("terminal state never changes", func(t *testing.T) {
		j := &Job{ID: 3, Status: StatusOutstanding}
		j.Complete(errors.New("jam"), now)
		assert.False(t, j.Complete(nil, now.Add(time.Second)))
		assert.Equal(t, StatusFailed, j.Status)
		assert.Equal(t, now, j.CompletedAt)
	})
}

func TestJobClone(t *testing.T) {
	j := &Job{ID: 1, Card: domain.Card{"name": "Bob"}}
	c := j.Clone()
	c.Card["name"] = "Mallory"
	assert.Equal(t, "Bob", j.Card["name"])
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusOutstanding.IsTerminal())
	assert.True(t, StatusFinished.IsTerminal())
	assert.True(t, StatusFailed.IsTerminal())
	assert.False(t, StatusNotFound.IsTerminal())
}
