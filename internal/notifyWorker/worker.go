package notifyWorker

import (
	"context"
	"encoding/json"

	"github.com/wb-go/wbf/zlog"

	"partnerhub/internal/dto"
	"partnerhub/internal/mailer"
	"partnerhub/internal/rabbit"
	"partnerhub/internal/repo"
)

// Reader consumes event-cancelled messages and mails every registered
// participant a cancellation notice.
type Reader struct {
	RMQ    *rabbit.Client
	repo   repo.Repository
	mail   *mailer.Mailer
	done   chan struct{}
	cancel context.CancelFunc
}

func NewReader(rmq *rabbit.Client, repo repo.Repository, mail *mailer.Mailer) *Reader {
	return &Reader{
		RMQ:  rmq,
		repo: repo,
		mail: mail,
		done: make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	zlog.Logger.Info().Msg("cancellation notify worker started")

	go func() {
		defer close(r.done)

		handler := func(body []byte) error {
			var msg dto.EventCancelledMessage
			if err := json.Unmarshal(body, &msg); err != nil {
				zlog.Logger.Error().
					Err(err).
					Msgf("Failed to unmarshal message: %s", string(body))
				return err
			}

			zlog.Logger.Info().
				Int64("event_id", msg.EventID).
				Str("reason", msg.Reason).
				Msg("received event-cancelled message")

			emails, err := r.repo.GetParticipantEmails(cctx, msg.EventID)
			if err != nil {
				zlog.Logger.Error().
					Err(err).
					Int64("event_id", msg.EventID).
					Msg("Failed to load participant emails")
				return err
			}
			if len(emails) == 0 {
				zlog.Logger.Info().
					Int64("event_id", msg.EventID).
					Msg("no participants to notify")
				return nil
			}

			for _, email := range emails {
				if err := r.mail.SendCancellationNotice(email, msg.EventName, msg.Reason); err != nil {
					zlog.Logger.Warn().
						Err(err).
						Str("email", email).
						Msg("Failed to send cancellation notice")
				}
			}

			zlog.Logger.Info().
				Int64("event_id", msg.EventID).
				Int("recipients", len(emails)).
				Msg("cancellation notices sent")
			return nil
		}

		if err := r.RMQ.Consume(handler); err != nil {
			zlog.Logger.Error().Err(err).Msg("Failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("cancellation notify worker stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
