package models

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogEntryLenientNumbers(t *testing.T) {
	body := `{"data":[
		{"id":"A","playtime":12,"user_rating":4.5},
		{"id":"B","playtime":"7","user_rating":"3.25"},
		{"id":"C","playtime":"","user_rating":null},
		{"id":"D","playtime":9.0}
	]}`

	var resp CatalogResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.Len(t, resp.Data, 4)

	assert.Equal(t, Int(12), resp.Data[0].Playtime)
	assert.Equal(t, Float64(4.5), resp.Data[0].UserRating)
	assert.Equal(t, Int(7), resp.Data[1].Playtime)
	assert.Equal(t, Float64(3.25), resp.Data[1].UserRating)
	assert.Equal(t, Int(0), resp.Data[2].Playtime)
	assert.Equal(t, Float64(0), resp.Data[2].UserRating)
	assert.Equal(t, Int(9), resp.Data[3].Playtime)
}

func TestIntRejectsGarbage(t *testing.T) {
	var i Int
	require.Error(t, json.Unmarshal([]byte(`"soon"`), &i))
}

func TestMonitorsResponse(t *testing.T) {
	body := `{"stat":"ok","monitors":[{"id":778,"friendly_name":"Relay EU","url":"relay.example.net:11451","type":1,"status":2,"all_time_uptime_ratio":"99.871"}]}`

	var resp MonitorsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.Len(t, resp.Monitors, 1)
	assert.Equal(t, "ok", resp.Stat)
	assert.Nil(t, resp.Error)
	assert.Equal(t, Int(778), resp.Monitors[0].ID)
	assert.Equal(t, "relay.example.net:11451", resp.Monitors[0].URL)
}
