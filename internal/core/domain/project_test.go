package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProject_Validate(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		project Project
		wantErr bool
	}{
		{"title only", Project{Title: "Apollo"}, false},
		{"missing title", Project{}, true},
		{"valid range", Project{Title: "Apollo", StartDate: start, EndDate: start.AddDate(0, 6, 0)}, false},
		{"end before start", Project{Title: "Apollo", StartDate: start, EndDate: start.AddDate(0, -1, 0)}, true},
		{"open ended", Project{Title: "Apollo", StartDate: start}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.project.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
