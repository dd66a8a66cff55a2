package infra

import (
	"testing"

	"gestorstock/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestMailer_SinHostNoEnvia(t *testing.T) {
	m := NewMailer(&config.Config{SMTPPort: 587})
	assert.False(t, m.Configurado())
	assert.ErrorIs(t, m.Send("dueno@example.com", "cierre", "body", ""), ErrSMTPNoConfigurado)

	var nilMailer *Mailer
	assert.False(t, nilMailer.Configurado())
}

func TestMailer_Configurado(t *testing.T) {
	m := NewMailer(&config.Config{SMTPHost: "smtp.example.com", SMTPPort: 2525})
	assert.True(t, m.Configurado())
	assert.Equal(t, "smtp.example.com:2525", m.addr)
}
