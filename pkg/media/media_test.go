package media

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressArgs_ChatProfileCapsBitrate(t *testing.T) {
	args := CompressArgs("in.mp4", "out.mp4", ProfileChat)

	require.Equal(t, "-i", args[0])
	require.Equal(t, "in.mp4", args[1])
	require.Equal(t, "out.mp4", args[len(args)-1])
	require.Contains(t, args, "-maxrate")
	require.Contains(t, args, "libx264")
}

func TestCompressArgs_MediumProfileHasNoRateCap(t *testing.T) {
	args := CompressArgs("in.mp4", "out.mp4", ProfileMedium)

	require.NotContains(t, args, "-maxrate")
	require.Contains(t, args, "scale=720:-2")
}
