package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/studycoach/internal/models"
)

func TestDate_AddDays(t *testing.T) {
	d := models.NewDate(2023, 12, 25)
	assert.Equal(t, "2024-01-09", d.AddDays(15).String())
	assert.Equal(t, "2023-12-24", d.AddDays(-1).String())
	assert.Equal(t, "2024-03-01", models.NewDate(2024, 2, 28).AddDays(2).String())
}

func TestDate_DateOfUsesLocation(t *testing.T) {
	instant := time.Date(2024, 6, 1, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-01", models.DateOf(instant, nil).String())
	assert.Equal(t, "2024-05-31", models.DateOf(instant, time.FixedZone("PDT", -7*60*60)).String())
}

func TestDate_Compare(t *testing.T) {
	a := models.NewDate(2024, 1, 1)
	b := models.NewDate(2024, 1, 2)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.Equal(models.NewDate(2024, 1, 1)))
	assert.False(t, a.IsZero())
	assert.True(t, models.Date{}.IsZero())
}

func TestDate_JSON(t *testing.T) {
	type payload struct {
		Due models.Date `json:"due"`
	}

	b, err := json.Marshal(payload{Due: models.NewDate(2024, 2, 29)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2024-02-29"}`, string(b))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2025-07-04"}`), &p))
	assert.Equal(t, "2025-07-04", p.Due.String())

	require.NoError(t, json.Unmarshal([]byte(`{"due":null}`), &p))
	assert.True(t, p.Due.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"due":"04/07/2025"}`), &p))
}

func TestDate_Scan(t *testing.T) {
	var d models.Date
	require.NoError(t, d.Scan("2024-03-01"))
	assert.Equal(t, "2024-03-01", d.String())

	require.NoError(t, d.Scan([]byte("2024-03-02")))
	assert.Equal(t, "2024-03-02", d.String())

	require.NoError(t, d.Scan(time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-03-03", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))

	v, err := models.NewDate(2024, 3, 4).Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", v)
}
