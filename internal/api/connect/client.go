package connect

import (
	"context"

	"connectrpc.com/connect"
)

// PlayerServiceClient is a client for the PlayerService.
type PlayerServiceClient struct {
	dispatch  *connect.Client[IntentRequest, StateResponse]
	getState  *connect.Client[StateRequest, StateResponse]
	subscribe *connect.Client[SubscribeRequest, Notification]
}

// NewPlayerServiceClient creates a client for the PlayerService at baseURL,
// e.g. "http://localhost:8080".
func NewPlayerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PlayerServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &PlayerServiceClient{
		dispatch:  connect.NewClient[IntentRequest, StateResponse](httpClient, baseURL+PlayerServiceDispatchProcedure, opts...),
		getState:  connect.NewClient[StateRequest, StateResponse](httpClient, baseURL+PlayerServiceGetStateProcedure, opts...),
		subscribe: connect.NewClient[SubscribeRequest, Notification](httpClient, baseURL+PlayerServiceSubscribeProcedure, opts...),
	}
}

// Dispatch calls PlayerService.Dispatch.
func (c *PlayerServiceClient) Dispatch(ctx context.Context, req *connect.Request[IntentRequest]) (*connect.Response[StateResponse], error) {
	return c.dispatch.CallUnary(ctx, req)
}

// GetState calls PlayerService.GetState.
func (c *PlayerServiceClient) GetState(ctx context.Context, req *connect.Request[StateRequest]) (*connect.Response[StateResponse], error) {
	return c.getState.CallUnary(ctx, req)
}

// Subscribe calls PlayerService.Subscribe.
func (c *PlayerServiceClient) Subscribe(ctx context.Context, req *connect.Request[SubscribeRequest]) (*connect.ServerStreamForClient[Notification], error) {
	return c.subscribe.CallServerStream(ctx, req)
}
