package notify

import (
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealdex/enrich/internal/domain/recipe"
	"github.com/mealdex/enrich/internal/enrich"
	"github.com/mealdex/enrich/pkg/logger"
)

func sampleRun() ([]*enrich.Result, *enrich.Stats) {
	results := []*enrich.Result{
		{
			Recipe: &recipe.Recipe{ID: "rec-1", Title: "Beef Tacos"},
			Changes: &recipe.ChangeSet{Fields: map[string]recipe.FieldChange{
				recipe.FieldCuisine: {Suggested: "Mexican"},
			}},
		},
	}
	stats := &enrich.Stats{TotalRecipes: 1, TotalSuggestions: 1, AverageConfidence: 0.7}
	return results, stats
}

func TestMailerDisabledWithoutConfig(t *testing.T) {
	m := NewMailer(Config{}, logger.NewNop())
	assert.False(t, m.Enabled())

	results, stats := sampleRun()
	assert.NoError(t, m.SendSummary(results, stats))
}

func TestMailerSendsSummary(t *testing.T) {
	m := NewMailer(Config{
		SMTPHost:    "smtp.example.com",
		SMTPPort:    587,
		FromAddress: "enrich@example.com",
		ToAddress:   "chef@example.com",
	}, logger.NewNop())
	require.True(t, m.Enabled())

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	results, stats := sampleRun()
	require.NoError(t, m.SendSummary(results, stats))

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "enrich@example.com", gotFrom)
	assert.Equal(t, []string{"chef@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Recipe enrichment: 1 recipes, 1 suggestions")
	assert.Contains(t, string(gotMsg), "Beef Tacos")
}

func TestMailerSurfacesSendError(t *testing.T) {
	m := NewMailer(Config{SMTPHost: "smtp.example.com", ToAddress: "chef@example.com"}, logger.NewNop())
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	results, stats := sampleRun()
	assert.Error(t, m.SendSummary(results, stats))
}
