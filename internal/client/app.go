package client

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/MKhiriev/scrapegate/internal/adapter"
	"github.com/MKhiriev/scrapegate/internal/config"
	"github.com/MKhiriev/scrapegate/internal/logger"
	"github.com/MKhiriev/scrapegate/models"
)

const usage = `usage: scrapegate <command> [flags]

commands:
  version                         server version and capabilities
  register -email E [-tier T]     create a user
  login -email E                  authenticate and cache the session
  activity -platform P -result R  report one scraping action
  limits                          show today's quota
  contact -name N -email E -message M
  logout                          forget the cached session
  admin stats|ban|backup|contact  operator commands (needs SCRAPEGATE_ADMIN_KEY)
`

type App struct {
	adapter  adapter.ServerAdapter
	sessions SessionStore
	cfg      config.ClientConfig
	build    models.AppBuildInfo

	out    io.Writer
	logger *logger.Logger
}

func NewApp(serverAdapter adapter.ServerAdapter, sessions SessionStore, cfg config.ClientConfig, build models.AppBuildInfo, out io.Writer, logger *logger.Logger) *App {
	serverAdapter.SetAdminKey(cfg.AdminKey)
	return &App{
		adapter:  serverAdapter,
		sessions: sessions,
		cfg:      cfg,
		build:    build,
		out:      out,
		logger:   logger,
	}
}

func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}

	cmd, rest := args[0], args[1:]
	a.logger.Debug().Str("command", cmd).Msg("running command")

	switch cmd {
	case "version":
		return a.version(ctx)
	case "register":
		return a.register(ctx, rest)
	case "login":
		return a.login(ctx, rest)
	case "activity":
		return a.activity(ctx, rest)
	case "limits":
		return a.limits(ctx)
	case "contact":
		return a.contact(ctx, rest)
	case "logout":
		return a.logout()
	case "admin":
		return a.admin(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

func (a *App) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.out)
	return fs
}

func (a *App) deviceID() (string, error) {
	if a.cfg.DeviceID != "" {
		return a.cfg.DeviceID, nil
	}
	return a.sessions.DeviceID()
}

// restoreSession hands the cached token to the adapter.
func (a *App) restoreSession() error {
	session, err := a.sessions.Load()
	if err != nil {
		return err
	}
	a.adapter.SetToken(session.Token)
	return nil
}

func (a *App) version(ctx context.Context) error {
	info, err := a.adapter.Version(ctx)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, renderServerInfo(info, a.build))
	return nil
}

func (a *App) register(ctx context.Context, args []string) error {
	fs := a.flagSet("register")
	email := fs.String("email", "", "user email")
	tier := fs.String("tier", string(models.TierFree), "free, pro or advanced")
	ip := fs.String("ip", "", "client IP reported to the server")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	device, err := a.deviceID()
	if err != nil {
		return err
	}

	user, err := a.adapter.Register(ctx, models.RegisterRequest{
		Email:    *email,
		IP:       *ip,
		DeviceID: device,
		Tier:     *tier,
	})
	if err != nil {
		return err
	}

	fmt.Fprint(a.out, renderUser(user))
	return nil
}

func (a *App) login(ctx context.Context, args []string) error {
	fs := a.flagSet("login")
	email := fs.String("email", "", "user email")
	ip := fs.String("ip", "", "client IP reported to the server")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	device, err := a.deviceID()
	if err != nil {
		return err
	}

	result, err := a.adapter.Authenticate(ctx, models.AuthenticateRequest{
		Email:    *email,
		IP:       *ip,
		DeviceID: device,
	})
	if err != nil {
		return err
	}

	fmt.Fprint(a.out, renderAuthResult(result))
	if !result.OK {
		return fmt.Errorf("%w: %s", ErrAccessDenied, result.Reason)
	}

	// a degraded admission carries no token, keep whatever was cached
	if token := a.adapter.Token(); token != "" && result.SessionID != "" {
		owner, err := a.sessions.Save(token)
		if err != nil {
			return err
		}
		a.logger.Info().Str("email", owner).Msg("session cached")
	}
	return nil
}

func (a *App) activity(ctx context.Context, args []string) error {
	fs := a.flagSet("activity")
	platform := fs.String("platform", "", "scraped platform")
	topic := fs.String("topic", "", "search topic")
	result := fs.String("result", string(models.ActivitySuccess), "success, failure or denied")
	reason := fs.String("reason", "", "failure reason")
	ip := fs.String("ip", "", "client IP reported to the server")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	if err := a.restoreSession(); err != nil {
		return err
	}

	outcome, err := a.adapter.LogActivity(ctx, models.ActivityRequest{
		IP:       *ip,
		Platform: *platform,
		Topic:    *topic,
		Result:   models.ActivityResult(*result),
		Reason:   *reason,
	})
	if err != nil {
		return a.dropSessionOnUnauthorized(err)
	}

	fmt.Fprint(a.out, renderActivityOutcome(outcome))
	switch outcome.Outcome {
	case models.OutcomeAutoBanned:
		_ = a.sessions.Clear()
		return fmt.Errorf("%w: banned (%s)", ErrAccessDenied, outcome.Ban.Reason)
	case models.OutcomeDenied:
		return fmt.Errorf("%w: %s", ErrAccessDenied, outcome.Reason)
	}
	return nil
}

func (a *App) limits(ctx context.Context) error {
	if err := a.restoreSession(); err != nil {
		return err
	}

	status, err := a.adapter.CheckLimits(ctx)
	if err != nil {
		return a.dropSessionOnUnauthorized(err)
	}

	fmt.Fprint(a.out, renderQuota(status))
	return nil
}

// dropSessionOnUnauthorized forgets a cached token the server no longer
// accepts.
func (a *App) dropSessionOnUnauthorized(err error) error {
	if errors.Is(err, adapter.ErrUnauthorized) {
		if clearErr := a.sessions.Clear(); clearErr != nil {
			a.logger.Warn().Err(clearErr).Msg("could not clear rejected session")
		}
	}
	return err
}

func (a *App) contact(ctx context.Context, args []string) error {
	fs := a.flagSet("contact")
	name := fs.String("name", "", "your name")
	email := fs.String("email", "", "reply address")
	phone := fs.String("phone", "", "phone number")
	message := fs.String("message", "", "message text")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	err := a.adapter.SubmitContact(ctx, models.ContactRequest{
		Name:    *name,
		Email:   *email,
		Phone:   *phone,
		Message: *message,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "message sent")
	return nil
}

func (a *App) logout() error {
	if err := a.sessions.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "logged out")
	return nil
}

func (a *App) admin(ctx context.Context, args []string) error {
	if a.cfg.AdminKey == "" {
		return ErrNoAdminKey
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: admin needs a subcommand", ErrUsage)
	}

	switch args[0] {
	case "stats":
		stats, err := a.adapter.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(a.out, renderStats(stats))
	case "ban":
		fs := a.flagSet("admin ban")
		email := fs.String("email", "", "user to ban")
		reason := fs.String("reason", "", "ban reason")
		notes := fs.String("notes", "", "admin notes")
		if err := fs.Parse(args[1:]); err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		banned, err := a.adapter.Ban(ctx, models.BanRequest{
			Email:      *email,
			Reason:     strings.TrimSpace(*reason),
			AdminNotes: *notes,
		})
		if err != nil {
			return err
		}
		fmt.Fprint(a.out, renderBanned(banned))
	case "backup":
		result, err := a.adapter.Backup(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(a.out, renderBackup(result))
	case "contact":
		messages, err := a.adapter.ListContact(ctx)
		if err != nil {
			return err
		}
		fmt.Fprint(a.out, renderContact(messages))
	default:
		return fmt.Errorf("%w: unknown admin command %q", ErrUsage, args[0])
	}
	return nil
}
