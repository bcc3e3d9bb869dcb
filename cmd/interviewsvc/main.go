package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mkrupp/smart-interviewer/internal/infra/config"
	"github.com/mkrupp/smart-interviewer/internal/infra/logging"
	"github.com/mkrupp/smart-interviewer/internal/infra/transport/http"
	"github.com/mkrupp/smart-interviewer/internal/repo/blob"
	"github.com/mkrupp/smart-interviewer/internal/repo/user"
	"github.com/mkrupp/smart-interviewer/internal/svc/authsvc"
	"github.com/mkrupp/smart-interviewer/internal/svc/interviewsvc"
	"github.com/mkrupp/smart-interviewer/internal/svc/resumesvc"
	"github.com/mkrupp/smart-interviewer/internal/svc/speechsvc"
)

const (
	appName = "smartinterviewer"
	svcName = "interviewsvc"
)

type Config struct {
	config.EnvConfig

	Log        logging.LoggerConfig                `envPrefix:"LOG_"`
	HTTP       http.HTTPTransportConfig            `envPrefix:"HTTP_"`
	Auth       authsvc.AuthConfig                  `envPrefix:"AUTH_"`
	User       user.RepositoryConfig               `envPrefix:"USER_"`
	Interview  interviewsvc.InterviewConfig        `envPrefix:"INTERVIEW_"`
	Speech     speechsvc.SpeechConfig              `envPrefix:"SPEECH_"`
	Resume     resumesvc.ResumeConfig              `envPrefix:"RESUME_"`
	ResumeHTTP resumesvc.HTTPTransportConfig       `envPrefix:"RESUME_"`
	Blob       blob.FileSystemBlobRepositoryConfig `envPrefix:"BLOB_"`
}

func main() {
	var (
		cfg Config

		configPrefix = strings.ToUpper(strings.Join([]string{appName, svcName}, "_"))
		loggerName   = strings.ToLower(strings.Join([]string{appName, svcName}, "."))
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(); err != nil {
		panic(err)
	}

	if err := config.Parse(ctx, &cfg, configPrefix); err != nil {
		panic(err)
	}

	logging.Configure(ctx, cfg.Log, loggerName)

	err := run(ctx, cfg)

	stop()

	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config) (err error) {
	log := logging.GetLogger("cmd.interviewsvc")

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "error", "err", err)
		} else {
			log.InfoContext(ctx, "shutdown")
		}
	}()

	userRepoFactory, err := user.NewRepositoryFactory(cfg.User)
	if err != nil {
		return fmt.Errorf("new user repository factory: %w", err)
	}

	authSvc, err := authsvc.NewAuthService(ctx, userRepoFactory, cfg.Auth)
	if err != nil {
		return fmt.Errorf("new auth service: %w", err)
	}
	defer authSvc.Close()

	interviewSvc, err := interviewsvc.NewInterviewService(cfg.Interview)
	if err != nil {
		return fmt.Errorf("new interview service: %w", err)
	}

	speechSvc, err := speechsvc.NewSpeechService(ctx, blob.FileSystemBlobRepositoryFactory(cfg.Blob), cfg.Speech)
	if err != nil {
		return fmt.Errorf("new speech service: %w", err)
	}

	resumeSvc := resumesvc.NewResumeService(cfg.Resume)

	handler := newRouter(routerConfig{
		Auth:       authsvc.NewHTTPTransport(authSvc),
		Interview:  interviewsvc.NewHTTPTransport(interviewSvc),
		Speech:     speechsvc.NewHTTPTransport(speechSvc),
		Resume:     resumesvc.NewHTTPTransport(resumeSvc, cfg.ResumeHTTP),
		Verifier:   authSvc,
		ProtectAPI: cfg.HTTP.ProtectAPI,
		WebDir:     cfg.HTTP.WebDir,
	})

	if err := http.ListenAndServe(ctx, handler, cfg.HTTP); err != nil {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}
