package ext

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultValue(t *testing.T) {
	assert.Equal(t, "git", DefaultValue("", "git"))
	assert.Equal(t, "/usr/bin/git", DefaultValue("/usr/bin/git", "git"))
	assert.Equal(t, 100, DefaultValue(0, 100))
	assert.Equal(t, 30*time.Second, DefaultValue(30*time.Second, time.Minute))
}

func TestReplaceHomeDirWithTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, "~", ReplaceHomeDirWithTilde(home))
	assert.Equal(t, filepath.Join("~", "backups", "a.zip"), ReplaceHomeDirWithTilde(filepath.Join(home, "backups", "a.zip")))
	assert.Equal(t, home+"-other/a.zip", ReplaceHomeDirWithTilde(home+"-other/a.zip"))
	assert.Equal(t, "/tmp/repos", ReplaceHomeDirWithTilde("/tmp/repos"))
}
