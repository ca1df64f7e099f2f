// Package apitest runs an in-memory HypeBid API for tests. It implements the
// endpoints the bot uses with just enough server-side behaviour to exercise
// the screens end to end.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jensholdgaard/hypebid-bot/internal/domain"
)

// BasePath is the prefix of every route.
const BasePath = "/api/user"

// Call is a request the server received.
type Call struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
}

// Server is a fake HypeBid API.
type Server struct {
	srv *httptest.Server
	now func() time.Time

	mu           sync.Mutex
	users        map[string]*account // by id
	tokens       map[string]string   // token -> user id
	auctions     map[string]*domain.Auction
	order        []string
	transactions map[string]*domain.Transaction
	withdraws    []domain.Withdraw
	kyc          map[string]*domain.Kyc
	calls        []Call
	gates        map[string]chan struct{}
}

type account struct {
	user     domain.User
	password string
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		now:          time.Now,
		users:        make(map[string]*account),
		tokens:       make(map[string]string),
		auctions:     make(map[string]*domain.Auction),
		transactions: make(map[string]*domain.Transaction),
		kyc:          make(map[string]*domain.Kyc),
		gates:        make(map[string]chan struct{}),
	}
	s.srv = httptest.NewServer(s.router())
	t.Cleanup(s.srv.Close)
	return s
}

// URL is the API base URL including BasePath.
func (s *Server) URL() string { return s.srv.URL + BasePath }

// SetClock overrides the server's notion of now.
func (s *Server) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// AddUser registers an account and returns its access token.
func (s *Server) AddUser(u domain.User, password string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	s.users[u.ID] = &account{user: u, password: password}
	tok := newToken(u.ID)
	s.tokens[tok] = u.ID
	return tok
}

// User returns the stored account.
func (s *Server) User(id string) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.users[id]; ok {
		return a.user
	}
	return domain.User{}
}

// SetKYC stores a verification record for a user.
func (s *Server) SetKYC(userID string, status domain.KycStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kyc[userID] = &domain.Kyc{ID: uuid.NewString(), UserID: userID, Status: status}
}

// AddAuction stores a. Viewer flags are computed per request.
func (s *Server) AddAuction(a domain.Auction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Transaction != nil {
		tx := *a.Transaction
		tx.AuctionID = a.ID
		s.transactions[tx.ID] = &tx
		a.Transaction = &tx
	}
	s.auctions[a.ID] = &a
	s.order = append(s.order, a.ID)
}

// Auction returns the stored auction.
func (s *Server) Auction(id string) domain.Auction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.auctions[id]; ok {
		return *a
	}
	return domain.Auction{}
}

// Transaction returns a copy of the stored transaction, or an empty one.
func (s *Server) Transaction(id string) *domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.transactions[id]; ok {
		cp := *t
		return &cp
	}
	return &domain.Transaction{}
}

// Calls returns the requests received so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount returns how many requests matched method and path.
func (s *Server) CallCount(method, path string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// Hold makes requests to path block until the returned release is called.
func (s *Server) Hold(path string) (release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gate := make(chan struct{})
	s.gates[path] = gate
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.gates, path)
			s.mu.Unlock()
			close(gate)
		})
	}
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.record, s.hold)

	api := r.Group(BasePath)
	api.POST("/account/login", s.login)
	api.POST("/account/register", s.register)

	authed := api.Group("", s.authenticate)
	{
		authed.GET("/auctions", s.listAuctions)
		authed.GET("/auctions/owned", s.ownedAuctions)
		authed.GET("/auctions/:id", s.getAuction)
		authed.POST("/auctions", s.createAuction)
		authed.PATCH("/auctions/:id", s.finishAuction)

		authed.GET("/bids", s.listBids)
		authed.POST("/bids/:id", s.placeBid)

		authed.GET("/transactions", s.listTransactions)
		authed.GET("/transactions/:id", s.getTransaction)
		authed.PATCH("/transactions/:id/location", s.setLocation)
		authed.PATCH("/transactions/:id/delivery", s.markDelivered)
		authed.PATCH("/transactions/:id/completed", s.markCompleted)

		authed.GET("/account", s.getAccount)
		authed.PUT("/account", s.updateAccount)
		authed.PATCH("/account", s.updateImage)
		authed.DELETE("/account", s.deleteImage)
		authed.PUT("/account/change-password", s.changePassword)
		authed.GET("/account/check-kyc", s.checkKYC)
		authed.POST("/account/verify-kyc", s.verifyKYC)

		authed.POST("/withdraws", s.requestWithdraw)
		authed.GET("/withdraws", s.listWithdraws)
	}
	return r
}

func ok(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{"message": message, "data": data})
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message, "data": nil})
}

func (s *Server) record(c *gin.Context) {
	s.mu.Lock()
	s.calls = append(s.calls, Call{
		Method:        c.Request.Method,
		Path:          strings.TrimPrefix(c.Request.URL.Path, BasePath),
		Authorization: c.GetHeader("Authorization"),
		RequestID:     c.GetHeader("X-Request-ID"),
	})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) hold(c *gin.Context) {
	s.mu.Lock()
	gate := s.gates[strings.TrimPrefix(c.Request.URL.Path, BasePath)]
	s.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}
	}
	c.Next()
}

const viewerKey = "viewer"

func (s *Server) authenticate(c *gin.Context) {
	tok, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	s.mu.Lock()
	id, known := s.tokens[tok]
	s.mu.Unlock()
	if !found || !known {
		fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	c.Set(viewerKey, id)
	c.Next()
}

func viewer(c *gin.Context) string { return c.GetString(viewerKey) }

func newToken(id string) string { return fmt.Sprintf("tok-%s", id) }

// present returns a copy of a with flags relative to viewerID. Callers hold mu.
func (s *Server) present(a *domain.Auction, viewerID string) domain.Auction {
	out := *a
	out.Bids = append([]domain.Bid(nil), a.Bids...)
	out.IsSeller = a.UserID == viewerID
	if a.Transaction != nil {
		tx := *s.transactions[a.Transaction.ID]
		out.Transaction = &tx
		out.IsBuyer = tx.UserID == viewerID
	}
	if out.IsSeller || out.Transaction != nil {
		out.IsAbleToBid = false
	}
	if !out.IsSeller || out.Transaction != nil {
		out.IsAbleToFinish = false
	}
	return out
}

func (s *Server) presentTx(t *domain.Transaction, viewerID string) domain.Transaction {
	out := *t
	if a, ok := s.auctions[t.AuctionID]; ok {
		pa := s.present(a, viewerID)
		pa.Transaction = nil
		out.Auction = &pa
	}
	return out
}

func amountOf(raw string) decimal.Decimal {
	d, _ := decimal.NewFromString(raw)
	return d
}
