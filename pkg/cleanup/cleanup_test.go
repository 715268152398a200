package cleanup_test

import (
	"errors"
	"testing"

	"github.com/limbo/companion/pkg/cleanup"
	"github.com/stretchr/testify/assert"
)

func TestRunOrderAndErrors(t *testing.T) {
	var order []string
	cleanup.Register(&cleanup.Job{Name: "first", F: func() error {
		order = append(order, "first")
		return nil
	}})
	cleanup.Register(&cleanup.Job{Name: "second", F: func() error {
		order = append(order, "second")
		return errors.New("boom")
	}})

	err := cleanup.Run()
	assert.ErrorContains(t, err, "second: boom")
	assert.Equal(t, []string{"second", "first"}, order)

	// jobs are forgotten after a run
	assert.NoError(t, cleanup.Run())
	assert.Len(t, order, 2)
}
