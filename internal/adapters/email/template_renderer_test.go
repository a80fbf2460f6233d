package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventplanner/internal/domain"
)

func TestTemplateRenderer_ConfirmationCode(t *testing.T) {
	r := NewTemplateRenderer()

	subject, html, text, err := r.Render("confirmation_code", &domain.ConfirmationCodeEmailData{
		Email:            "u@example.com",
		Username:         "alice",
		Code:             "1234",
		ExpiresInMinutes: 60,
	})
	require.NoError(t, err)
	assert.Contains(t, subject, "1234")
	assert.Contains(t, html, "alice")
	assert.Contains(t, html, "1234")
	assert.Contains(t, text, "60 minutes")
}

func TestTemplateRenderer_EventInvitation(t *testing.T) {
	r := NewTemplateRenderer()

	subject, html, text, err := r.Render("event_invitation", &domain.EventInvitationEmailData{
		Email:       "u@example.com",
		InviterName: "bob",
		EventTitle:  "Launch Party",
		Message:     "Hope you can make it",
	})
	require.NoError(t, err)
	assert.Contains(t, subject, "Launch Party")
	assert.Contains(t, html, "bob")
	assert.Contains(t, html, "Hope you can make it")
	assert.Contains(t, text, "Launch Party")
}

func TestTemplateRenderer_EventInvitation_no_message(t *testing.T) {
	r := NewTemplateRenderer()

	_, html, _, err := r.Render("event_invitation", &domain.EventInvitationEmailData{
		Email:       "u@example.com",
		InviterName: "bob",
		EventTitle:  "Launch Party",
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "blockquote")
}

func TestTemplateRenderer_unknown_template(t *testing.T) {
	r := NewTemplateRenderer()

	_, _, _, err := r.Render("does_not_exist", nil)
	assert.Error(t, err)
}
