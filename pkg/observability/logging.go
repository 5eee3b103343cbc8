package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/mathpad/pkg/domain"
)

// LoggingHooks returns hooks that write every lifecycle event to logger.
// Transitions and keywords are logged at Debug, evaluations at Info.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	mode := func(msg string) func(context.Context, *domain.ModeEvent) {
		return func(ctx context.Context, e *domain.ModeEvent) {
			logger.DebugContext(ctx, msg,
				"session_id", e.SessionID,
				"from", e.From,
				"to", e.To,
				"node", e.Node,
				"reason", e.Reason,
			)
		}
	}
	return domain.LifecycleHooks{
		OnModeEnter: mode("mode_enter"),
		OnModeExit:  mode("mode_exit"),
		OnKeyword: func(ctx context.Context, e *domain.KeywordEvent) {
			logger.DebugContext(ctx, "keyword", "session_id", e.SessionID, "keyword", e.Keyword)
		},
		OnEvaluate: func(ctx context.Context, e *domain.EvaluationEvent) {
			if e.Err != nil {
				logger.InfoContext(ctx, "evaluate",
					"session_id", e.SessionID,
					"expression", e.Expression,
					"duration", e.Duration,
					"err", e.Err,
				)
				return
			}
			logger.InfoContext(ctx, "evaluate",
				"session_id", e.SessionID,
				"expression", e.Expression,
				"duration", e.Duration,
			)
		},
	}
}
