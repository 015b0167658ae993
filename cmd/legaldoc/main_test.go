package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xprabhudayal/genai/internal/models"
	"github.com/xprabhudayal/genai/internal/terms"
)

func TestTermsCommon(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"terms", "--common"})
	t.Cleanup(func() {
		termsCommon = false
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "  1. "+terms.CommonTerms[0]+"\n")
	assert.Equal(t, len(terms.CommonTerms), bytes.Count(out.Bytes(), []byte("\n")))
}

func TestReportedErrorUnwraps(t *testing.T) {
	assert.NoError(t, reported(nil))

	err := reported(models.ErrBusy)
	var rerr reportedError
	assert.True(t, errors.As(err, &rerr))
	assert.ErrorIs(t, err, models.ErrBusy)
}
