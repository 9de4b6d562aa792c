package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListBookingsRequest_Filter(t *testing.T) {
	q := ListBookingsRequest{Date: "2030-03-11", From: "2030-03-01"}
	q.Page, q.PageSize = 2, 10

	f, err := q.filter("owner-1")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", f.OwnerID)
	require.NotNil(t, f.Date)
	assert.True(t, f.Date.Equal(time.Date(2030, 3, 11, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, f.From)
	assert.Nil(t, f.To)
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, 10, f.PageSize)

	tests := []struct {
		name string
		q    ListBookingsRequest
	}{
		{"Bad date", ListBookingsRequest{Date: "2030-02-30"}},
		{"Bad from", ListBookingsRequest{From: "11.03.2030"}},
		{"Bad to", ListBookingsRequest{To: "tomorrow"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.q.filter("")
			assert.Error(t, err)
		})
	}
}
