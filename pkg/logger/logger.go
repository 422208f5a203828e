package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config options du logger.
type Config struct {
	Env     string // development -> console lisible; production -> JSON
	Level   string // trace, debug, info, warn, error
	Service string    // nom du service, estampillé sur chaque ligne
	Writer  io.Writer // sortie de remplacement; os.Stdout par défaut
}

// Logger wrapper autour de zerolog pour l'injection et la cohérence.
type Logger struct {
	zl zerolog.Logger
}

// New crée un logger structuré. En development la sortie est lisible; en production JSON.
func New(cfg Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.Writer != nil {
		w = cfg.Writer
	} else if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "02/01 15:04:05"}
	}

	ctx := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	zl := ctx.Logger()

	// Rediriger le logger global de zerolog pour les librairies qui l'utilisent
	log.Logger = zl

	return &Logger{zl: zl}
}

// ForInvoice sous-logger portant le numéro de facture: toutes les étapes
// d'un même envoi (PDF, webhook, statut) se corrèlent sur ce champ.
func (l *Logger) ForInvoice(number string) *Logger {
	return &Logger{zl: l.zl.With().Str("facture", number).Logger()}
}

func parseLevel(s string) zerolog.Level {
	switch s {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Trace, Debug, Info, Warn, Error délégués à zerolog.
func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// With crée un sous-logger avec des champs fixes.
func (l *Logger) With() zerolog.Context {
	return l.zl.With()
}

// Zerolog renvoie le logger interne si l'API directe est nécessaire.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zl
}
