// Package connect provides Connect RPC service implementations.
package connect

import (
	"context"
	"net/http"
	"sync"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/playdeck/internal/app/intent"
	"github.com/osa030/playdeck/internal/app/notification"
	"github.com/osa030/playdeck/internal/app/player"
)

const (
	// PlayerServiceName is the fully-qualified name of the PlayerService.
	PlayerServiceName = "playdeck.v1.PlayerService"

	PlayerServiceDispatchProcedure  = "/" + PlayerServiceName + "/Dispatch"
	PlayerServiceGetStateProcedure  = "/" + PlayerServiceName + "/GetState"
	PlayerServiceSubscribeProcedure = "/" + PlayerServiceName + "/Subscribe"
)

// StateReader provides the current player snapshot.
type StateReader interface {
	Snapshot() player.Snapshot
}

// PlayerService implements the PlayerService RPC.
type PlayerService struct {
	state         StateReader
	dispatcher    *intent.Dispatcher
	notifications *notification.Manager
	done          <-chan struct{}
}

// NewPlayerService creates a new PlayerService. Subscriptions end when done
// is closed.
func NewPlayerService(
	state StateReader,
	dispatcher *intent.Dispatcher,
	notifications *notification.Manager,
	done <-chan struct{},
) *PlayerService {
	return &PlayerService{
		state:         state,
		dispatcher:    dispatcher,
		notifications: notifications,
		done:          done,
	}
}

// Ensure the player and stream adapter satisfy the interfaces they are used through.
var (
	_ intent.Player       = (*player.Player)(nil)
	_ StateReader         = (*player.Player)(nil)
	_ notification.Stream = (*notificationStreamAdapter)(nil)
)

// NewPlayerServiceHandler builds an HTTP handler serving every PlayerService
// procedure. It returns the path to mount the handler on.
func NewPlayerServiceHandler(svc *PlayerService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)

	dispatch := connect.NewUnaryHandler(PlayerServiceDispatchProcedure, svc.Dispatch, opts...)
	getState := connect.NewUnaryHandler(PlayerServiceGetStateProcedure, svc.GetState, opts...)
	subscribe := connect.NewServerStreamHandler(PlayerServiceSubscribeProcedure, svc.Subscribe, opts...)

	return "/" + PlayerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PlayerServiceDispatchProcedure:
			dispatch.ServeHTTP(w, r)
		case PlayerServiceGetStateProcedure:
			getState.ServeHTTP(w, r)
		case PlayerServiceSubscribeProcedure:
			subscribe.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// Dispatch runs one intent and returns the resulting state.
func (s *PlayerService) Dispatch(
	ctx context.Context,
	req *connect.Request[IntentRequest],
) (*connect.Response[StateResponse], error) {
	if err := s.dispatcher.Dispatch(req.Msg.toIntent()); err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&StateResponse{
		State: toPlayerState(s.state.Snapshot()),
	}), nil
}

// GetState returns the current state.
func (s *PlayerService) GetState(
	ctx context.Context,
	req *connect.Request[StateRequest],
) (*connect.Response[StateResponse], error) {
	return connect.NewResponse(&StateResponse{
		State: toPlayerState(s.state.Snapshot()),
	}), nil
}

// Subscribe streams the initial state followed by one notification per
// player event.
func (s *PlayerService) Subscribe(
	ctx context.Context,
	req *connect.Request[SubscribeRequest],
	stream *connect.ServerStream[Notification],
) error {
	initial := &notification.Notification{
		SequenceNo: s.notifications.NextSequenceNo(),
		Type:       notification.TypeInitialState,
		Snapshot:   s.state.Snapshot(),
	}
	if err := stream.Send(toNotification(initial)); err != nil {
		return err
	}

	adapter := &notificationStreamAdapter{stream: stream}
	subscriptionID := s.notifications.Subscribe(adapter)
	zlog.Debug().Msgf("connect: subscribed: subscription=%s", subscriptionID)

	// Wait for client disconnect or server shutdown
	select {
	case <-ctx.Done():
	case <-s.done:
	}

	s.notifications.Unsubscribe(subscriptionID)
	zlog.Debug().Msgf("connect: unsubscribed: subscription=%s", subscriptionID)

	return nil
}

// toConnectError maps dispatch errors to RPC status codes.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, intent.ErrUnknownIntent), errors.Is(err, intent.ErrInvalidIntent):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, player.ErrTrackOutOfRange):
		return connect.NewError(connect.CodeOutOfRange, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// notificationStreamAdapter adapts connect.ServerStream to notification.Stream.
type notificationStreamAdapter struct {
	mu     sync.Mutex
	stream *connect.ServerStream[Notification]
}

func (a *notificationStreamAdapter) Send(n *notification.Notification) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stream.Send(toNotification(n))
}
