package themes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/pym/internal/model"
)

func TestFor(t *testing.T) {
	assert.Equal(t, model.ThemeLight, For(model.ThemeLight).Name)
	assert.Equal(t, model.ThemeDark, For(model.ThemeDark).Name)
	assert.Equal(t, model.ThemeTypewriter, For(model.ThemeTypewriter).Name)
	assert.Equal(t, model.ThemeLight, For("unknown").Name)
}

func TestRevealInterval(t *testing.T) {
	assert.Equal(t, 60*time.Millisecond, For(model.ThemeLight).RevealInterval)
	assert.Equal(t, 120*time.Millisecond, For(model.ThemeTypewriter).RevealInterval)
}

func TestNext(t *testing.T) {
	assert.Equal(t, model.ThemeDark, Next(model.ThemeLight))
	assert.Equal(t, model.ThemeTypewriter, Next(model.ThemeDark))
	assert.Equal(t, model.ThemeLight, Next(model.ThemeTypewriter))
	assert.Equal(t, model.ThemeLight, Next("unknown"))
}

func TestVerdict(t *testing.T) {
	theme := For(model.ThemeDark)
	assert.Equal(t, theme.StatusError, theme.Verdict(model.VerdictAI))
	assert.Equal(t, theme.StatusWarning, theme.Verdict(model.VerdictMixed))
	assert.Equal(t, theme.StatusSuccess, theme.Verdict(model.VerdictHuman))
}
