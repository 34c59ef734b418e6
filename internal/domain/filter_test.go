package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionFilter_PageLimit(t *testing.T) {
	tests := []struct {
		limit int
		want  int
	}{
		{0, DefaultListLimit},
		{-3, DefaultListLimit},
		{10, 10},
		{MaxListLimit, MaxListLimit},
		{MaxListLimit + 1, MaxListLimit},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConditionFilter{Limit: tt.limit}.PageLimit(), "limit %d", tt.limit)
	}
}
