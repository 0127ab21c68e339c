package boot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAcceptsDMGLength(t *testing.T) {
	raw := make([]byte, 256)
	raw[0] = 0x31
	r, err := Load(raw)
	require.NoError(t, err)
	assert.False(t, r.IsCGBStyle())
	assert.Equal(t, uint8(0x31), r.Read(0))
}

func TestLoadAcceptsCGBLength(t *testing.T) {
	raw := make([]byte, 2304)
	r, err := Load(raw)
	require.NoError(t, err)
	assert.True(t, r.IsCGBStyle())
}

func TestLoadRejectsBadLength(t *testing.T) {
	_, err := Load(make([]byte, 100))
	assert.Error(t, err)
}

func TestLoadFingerprintIsStableAndContentDependent(t *testing.T) {
	a, err := Load(make([]byte, 256))
	require.NoError(t, err)

	raw := make([]byte, 256)
	raw[10] = 1
	b, err := Load(raw)
	require.NoError(t, err)

	assert.NotEqual(t, a.Fingerprint, b.Fingerprint)

	c, err := Load(make([]byte, 256))
	require.NoError(t, err)
	assert.Equal(t, a.Fingerprint, c.Fingerprint)
}
