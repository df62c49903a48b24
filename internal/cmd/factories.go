package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/discordgo"

	adapterdiscord "bugbot/internal/adapters/discord"
	adapterstorage "bugbot/internal/adapters/storage"
	"bugbot/internal/config"
	"bugbot/internal/ports"
	"bugbot/internal/services"
)

// Container holds all dependencies for the running bot
type Container struct {
	Controller *services.SessionController
	Prompts    *services.PromptService
	Registry   *services.SessionRegistry
	Reports    *services.ReportService
	Session    *discordgo.Session

	// Internal - for cleanup only
	repo ports.ReportRepository
}

// NewContainer creates a new Container with all dependencies wired.
// Sessions spawned by the controller are parented to rootCtx.
func NewContainer(rootCtx context.Context, settings *config.Settings) (*Container, error) {
	if settings == nil || settings.Token == "" {
		return nil, errors.New("no bot token configured, set token in settings.json")
	}
	if len(settings.Channels) == 0 {
		return nil, errors.New("no report channels configured, set channels in settings.json")
	}
	if settings.GuildID == "" {
		return nil, errors.New("no guild configured, set guild_id in settings.json")
	}

	repo, err := adapterstorage.NewSQLiteRepository(settings.GetDBPath())
	if err != nil {
		return nil, err
	}

	session, err := discordgo.New("Bot " + settings.Token)
	if err != nil {
		repo.Close()
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsDirectMessageReactions |
		discordgo.IntentsMessageContent

	questionTimeout := time.Duration(settings.QuestionTimeout()) * time.Second
	reviewTimeout := time.Duration(settings.ReviewTimeout()) * time.Second

	gateway := adapterdiscord.NewGateway(session, settings.GuildID, settings.MutedRoleID)
	interviewer := adapterdiscord.NewInterviewer(session, questionTimeout)
	diagnostics := adapterdiscord.NewDiagnostics(gateway, settings.DiagnosticsChannelID)

	prompts := services.NewPromptService(gateway, repo, settings.Channels)
	reports := services.NewReportService(repo, gateway, prompts, settings.Channels)
	pipeline := services.NewPipelineService(interviewer, gateway, reports, questionTimeout, reviewTimeout)
	registry := services.NewSessionRegistry()
	controller := services.NewSessionController(rootCtx, registry, gateway, interviewer, pipeline, diagnostics, questionTimeout)

	trigger := adapterdiscord.NewReactionTrigger(session, prompts, controller)
	trigger.Register()

	return &Container{
		Controller: controller,
		Prompts:    prompts,
		Registry:   registry,
		Reports:    reports,
		Session:    session,
		repo:       repo,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.repo != nil {
		return c.repo.Close()
	}
	return nil
}
