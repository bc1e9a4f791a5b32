package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/maildesk/internal/config"
)

func TestApplyBindings(t *testing.T) {
	assert := assert.New(t)

	base := *config.Default()
	fb := formBindings{
		baseURL:       " https://mail.example.com ",
		timeout:       "15",
		perPage:       "25",
		pollInterval:  "60",
		confirmDelay:  "750",
		defaultFolder: "starred",
		exportDir:     "/tmp/mail-out",
	}

	got := fb.apply(base)
	assert.Equal("https://mail.example.com", got.API.BaseURL)
	assert.Equal(15, got.API.TimeoutSec)
	assert.Equal(25, got.UI.PerPage)
	assert.Equal(60, got.UI.PollIntervalSec)
	assert.Equal(750, got.UI.StatsConfirmDelayMs)
	assert.Equal("starred", got.UI.DefaultFolder)
	assert.Equal(base.Cache.Path, got.Cache.Path, "empty path keeps the current value")
	assert.Equal(base.Log.File, got.Log.File)
	assert.Equal("/tmp/mail-out", got.Export.Dir)
}

func TestValidators(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(validateURL("http://localhost:5000"))
	assert.Error(validateURL("localhost:5000"))
	assert.Error(validateURL(""))

	in := validateInt(1, 200)
	assert.NoError(in("50"))
	assert.Error(in("0"))
	assert.Error(in("201"))
	assert.Error(in("many"))
}
