// Package apiconnect binds billsplit.v1.BillService to Connect handlers and clients.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/billsplit/pkg/api"
)

// BillServiceName is the fully-qualified name of the BillService service.
const BillServiceName = "billsplit.v1.BillService"

// Procedure paths for each BillService RPC.
const (
	BillServiceCalculateProcedure     = "/billsplit.v1.BillService/Calculate"
	BillServiceCreateSessionProcedure = "/billsplit.v1.BillService/CreateSession"
	BillServiceGetSessionProcedure    = "/billsplit.v1.BillService/GetSession"
	BillServiceUpdateSessionProcedure = "/billsplit.v1.BillService/UpdateSession"
	BillServiceDeleteSessionProcedure = "/billsplit.v1.BillService/DeleteSession"
)

// BillServiceHandler is implemented by the server side of BillService.
type BillServiceHandler interface {
	Calculate(context.Context, *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error)
	CreateSession(context.Context, *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.CreateSessionResponse], error)
	GetSession(context.Context, *connect.Request[api.GetSessionRequest]) (*connect.Response[api.GetSessionResponse], error)
	UpdateSession(context.Context, *connect.Request[api.UpdateSessionRequest]) (*connect.Response[api.UpdateSessionResponse], error)
	DeleteSession(context.Context, *connect.Request[api.DeleteSessionRequest]) (*connect.Response[api.DeleteSessionResponse], error)
}

// NewBillServiceHandler builds an HTTP handler for every BillService RPC and
// returns the path prefix to mount it on.
func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	handlers := map[string]http.Handler{
		BillServiceCalculateProcedure:     connect.NewUnaryHandler(BillServiceCalculateProcedure, svc.Calculate, opts...),
		BillServiceCreateSessionProcedure: connect.NewUnaryHandler(BillServiceCreateSessionProcedure, svc.CreateSession, opts...),
		BillServiceGetSessionProcedure:    connect.NewUnaryHandler(BillServiceGetSessionProcedure, svc.GetSession, opts...),
		BillServiceUpdateSessionProcedure: connect.NewUnaryHandler(BillServiceUpdateSessionProcedure, svc.UpdateSession, opts...),
		BillServiceDeleteSessionProcedure: connect.NewUnaryHandler(BillServiceDeleteSessionProcedure, svc.DeleteSession, opts...),
	}

	return "/" + BillServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// BillServiceClient is a client for BillService.
type BillServiceClient interface {
	Calculate(context.Context, *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error)
	CreateSession(context.Context, *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.CreateSessionResponse], error)
	GetSession(context.Context, *connect.Request[api.GetSessionRequest]) (*connect.Response[api.GetSessionResponse], error)
	UpdateSession(context.Context, *connect.Request[api.UpdateSessionRequest]) (*connect.Response[api.UpdateSessionResponse], error)
	DeleteSession(context.Context, *connect.Request[api.DeleteSessionRequest]) (*connect.Response[api.DeleteSessionResponse], error)
}

type billServiceClient struct {
	calculate     *connect.Client[api.CalculateRequest, api.CalculateResponse]
	createSession *connect.Client[api.CreateSessionRequest, api.CreateSessionResponse]
	getSession    *connect.Client[api.GetSessionRequest, api.GetSessionResponse]
	updateSession *connect.Client[api.UpdateSessionRequest, api.UpdateSessionResponse]
	deleteSession *connect.Client[api.DeleteSessionRequest, api.DeleteSessionResponse]
}

// NewBillServiceClient constructs a client for BillService at baseURL
// (for example, http://localhost:8080).
func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BillServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &billServiceClient{
		calculate:     connect.NewClient[api.CalculateRequest, api.CalculateResponse](httpClient, baseURL+BillServiceCalculateProcedure, opts...),
		createSession: connect.NewClient[api.CreateSessionRequest, api.CreateSessionResponse](httpClient, baseURL+BillServiceCreateSessionProcedure, opts...),
		getSession:    connect.NewClient[api.GetSessionRequest, api.GetSessionResponse](httpClient, baseURL+BillServiceGetSessionProcedure, opts...),
		updateSession: connect.NewClient[api.UpdateSessionRequest, api.UpdateSessionResponse](httpClient, baseURL+BillServiceUpdateSessionProcedure, opts...),
		deleteSession: connect.NewClient[api.DeleteSessionRequest, api.DeleteSessionResponse](httpClient, baseURL+BillServiceDeleteSessionProcedure, opts...),
	}
}

func (c *billServiceClient) Calculate(ctx context.Context, req *connect.Request[api.CalculateRequest]) (*connect.Response[api.CalculateResponse], error) {
	return c.calculate.CallUnary(ctx, req)
}

func (c *billServiceClient) CreateSession(ctx context.Context, req *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.CreateSessionResponse], error) {
	return c.createSession.CallUnary(ctx, req)
}

func (c *billServiceClient) GetSession(ctx context.Context, req *connect.Request[api.GetSessionRequest]) (*connect.Response[api.GetSessionResponse], error) {
	return c.getSession.CallUnary(ctx, req)
}

func (c *billServiceClient) UpdateSession(ctx context.Context, req *connect.Request[api.UpdateSessionRequest]) (*connect.Response[api.UpdateSessionResponse], error) {
	return c.updateSession.CallUnary(ctx, req)
}

func (c *billServiceClient) DeleteSession(ctx context.Context, req *connect.Request[api.DeleteSessionRequest]) (*connect.Response[api.DeleteSessionResponse], error) {
	return c.deleteSession.CallUnary(ctx, req)
}
