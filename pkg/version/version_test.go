package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersionIsNeverEmpty(t *testing.T) {
	require.NotEmpty(t, Version())
}

func TestUserAgentCarriesVersion(t *testing.T) {
	ua := UserAgent()
	require.Contains(t, ua, "leadlens/")
	require.Contains(t, ua, Version())
}
