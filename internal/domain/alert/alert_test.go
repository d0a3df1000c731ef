package alert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestAlertMessage verifies message building and description defaulting.
func TestAlertMessage(t *testing.T) {
	t.Parallel()

	a := Alert{Description: "disk full", Team: "sre"}
	require.Equal(t, "Alert: disk full", a.Message())

	// Missing description falls back to the fixed placeholder.
	require.Equal(t, "Alert: "+DefaultDescription, Alert{}.Message())
}

// TestTeamClone ensures cloned teams do not share backing storage.
func TestTeamClone(t *testing.T) {
	t.Parallel()

	require.Nil(t, Team(nil).Clone())

	team := Team{{Phone: "+1000"}, {Phone: "+2000"}}
	cloned := team.Clone()

	require.Equal(t, team, cloned)

	cloned[0].Phone = "+9999"
	require.Equal(t, "+1000", team[0].Phone)
}
