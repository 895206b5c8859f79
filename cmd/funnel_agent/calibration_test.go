package main

import (
	"encoding/json"
	"testing"

	"github.com/jonathan/hiring-funnel/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalibrationCommand_SingleLevel(t *testing.T) {
	stdout, _, err := execute(t, "calibration", "intern")
	require.NoError(t, err)

	var view calibrationView
	require.NoError(t, json.Unmarshal([]byte(stdout), &view))
	assert.Equal(t, types.RoleIntern, view.RoleLevel)
	assert.True(t, view.EarlyCareer)
}

func TestCalibrationCommand_AllLevels(t *testing.T) {
	stdout, _, err := execute(t, "calibration")
	require.NoError(t, err)

	var views []calibrationView
	require.NoError(t, json.Unmarshal([]byte(stdout), &views))
	require.Len(t, views, len(types.AllRoleLevels))
	assert.Equal(t, types.RoleIntern, views[0].RoleLevel)
	assert.Equal(t, types.RoleExecutive, views[len(views)-1].RoleLevel)
}

func TestCalibrationCommand_UnknownLevel(t *testing.T) {
	_, _, err := execute(t, "calibration", "wizard")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role level")
}
