package contracts

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.GOOS, info.OS)
	assert.Equal(t, APIVersion, info.APIVersion)
}

func TestVersionStrings(t *testing.T) {
	assert.Equal(t, "ensaio v"+Version, GetVersionString())

	full := GetFullVersionString()
	assert.True(t, strings.HasPrefix(full, GetVersionString()+" (built: "))
	assert.Contains(t, full, runtime.GOOS+"/"+runtime.GOARCH)
	assert.False(t, IsPrerelease())
}
