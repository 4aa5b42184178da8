package models

import (
	"testing"

	"earlywarning/internal/errmsg"

	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 {
	return &f
}

func TestChangeLogEnsureDefaults(t *testing.T) {
	var cl ChangeLog
	cl.EnsureDefaults()
	require.Equal(t, string(UseChange), cl.Use)

	cl.Use = string(UseNeed)
	cl.EnsureDefaults()
	require.Equal(t, string(UseNeed), cl.Use)
}

func TestChangeLogValidateEventRequired(t *testing.T) {
	cl := ChangeLog{Use: string(UseChange)}
	require.Equal(t, errmsg.ChangeLogEventRequired, cl.Validate())
}

func TestChangeLogValidateNegativeValue(t *testing.T) {
	cl := ChangeLog{
		Event: "E1",
		Use:   string(UseNeed),
		Need:  "N1",
		Value: floatPtr(-1),
	}
	require.Equal(t, errmsg.ChangeLogNegativeValue, cl.Validate())
}

func TestChangeLogValidateInvalidUse(t *testing.T) {
	cl := ChangeLog{Event: "E1", Use: "escalation"}
	require.Equal(t, errmsg.ChangeLogInvalidUse, cl.Validate())
}

func TestChangeLogValidateNeed(t *testing.T) {
	cl := ChangeLog{
		Event: "E1",
		Use:   string(UseNeed),
		Need:  "N1",
		Unit:  "U1",
		Value: floatPtr(120),
	}
	require.Equal(t, errmsg.EmptyStatusError, cl.Validate())

	// an effect reference makes no sense on a need entry
	cl.Effect = "F1"
	require.Equal(t, errmsg.ChangeLogUseMismatch, cl.Validate())
}

func TestChangeLogValidateAssessment(t *testing.T) {
	cl := ChangeLog{
		Event:     "E1",
		Use:       string(UseAssessment),
		Indicator: "I1",
		Unit:      "U1",
		Value:     floatPtr(42),
	}
	require.Equal(t, errmsg.EmptyStatusError, cl.Validate())
}

func TestChangeLogValidateActionRejectsQuantities(t *testing.T) {
	cl := ChangeLog{
		Event:    "E1",
		Use:      string(UseAction),
		Function: "F1",
		Action:   "A1",
	}
	require.Equal(t, errmsg.EmptyStatusError, cl.Validate())

	cl.Value = floatPtr(3)
	require.Equal(t, errmsg.ChangeLogUseMismatch, cl.Validate())
}

func TestChangeLogValidatePlainChange(t *testing.T) {
	cl := ChangeLog{
		Event:   "E1",
		Use:     string(UseChange),
		Comment: "situation stable",
	}
	require.Equal(t, errmsg.EmptyStatusError, cl.Validate())

	cl.Need = "N1"
	require.Equal(t, errmsg.ChangeLogUseMismatch, cl.Validate())
}
