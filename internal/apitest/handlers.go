package apitest

import (
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jensholdgaard/hypebid-bot/internal/domain"
)

func (s *Server) login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, a := range s.users {
		if a.user.Email == body.Email && a.password == body.Password {
			u := a.user
			u.AccessToken = newToken(id)
			s.tokens[u.AccessToken] = id
			ok(c, http.StatusOK, "Login success", u)
			return
		}
	}
	fail(c, http.StatusUnauthorized, "Invalid email or password")
}

func (s *Server) register(c *gin.Context) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.users {
		if a.user.Email == body.Email {
			fail(c, http.StatusConflict, "Email already registered")
			return
		}
	}
	now := s.now()
	u := domain.User{
		ID: uuid.NewString(), Name: body.Name, Email: body.Email, Phone: body.Phone,
		Role: domain.RoleUser, CreatedAt: now, UpdatedAt: now,
	}
	s.users[u.ID] = &account{user: u, password: body.Password}
	u.AccessToken = newToken(u.ID)
	s.tokens[u.AccessToken] = u.ID
	ok(c, http.StatusCreated, "Register success", u)
}

func (s *Server) listAuctions(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Auction, 0, len(s.order))
	for _, id := range s.order {
		if a := s.auctions[id]; a.Status == domain.AuctionAccepted || a.Status == "" {
			out = append(out, s.present(a, viewer(c)))
		}
	}
	ok(c, http.StatusOK, "Success", out)
}

func (s *Server) ownedAuctions(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Auction, 0)
	for _, id := range s.order {
		if a := s.auctions[id]; a.UserID == viewer(c) {
			out = append(out, s.present(a, viewer(c)))
		}
	}
	ok(c, http.StatusOK, "Success", out)
}

func (s *Server) getAuction(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, found := s.auctions[c.Param("id")]
	if !found {
		fail(c, http.StatusNotFound, "Auction not found")
		return
	}
	ok(c, http.StatusOK, "Success", s.present(a, viewer(c)))
}

func (s *Server) createAuction(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid form")
		return
	}
	field := func(k string) string {
		if v := form.Value[k]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	images := make([]string, 0, len(form.File["images"]))
	for _, fh := range form.File["images"] {
		images = append(images, "https://cdn.hypebid.example/"+fh.Filename)
	}
	if len(images) == 0 {
		fail(c, http.StatusBadRequest, "Images are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	a := &domain.Auction{
		ID:           uuid.NewString(),
		Name:         field("name"),
		Description:  field("description"),
		Location:     field("location"),
		Images:       images,
		OpeningPrice: amountOf(field("openingPrice")),
		BuyNowPrice:  amountOf(field("buyNowPrice")),
		MinimumBid:   amountOf(field("minimumBid")),
		Category:     domain.AuctionCategory(field("category")),
		Status:       domain.AuctionPending,
		UserID:       viewer(c),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.Start.UnmarshalText([]byte(field("start"))); err != nil {
		fail(c, http.StatusBadRequest, "Invalid start")
		return
	}
	if err := a.End.UnmarshalText([]byte(field("end"))); err != nil {
		fail(c, http.StatusBadRequest, "Invalid end")
		return
	}
	s.auctions[a.ID] = a
	s.order = append(s.order, a.ID)
	ok(c, http.StatusCreated, "Auction created, waiting for review", s.present(a, viewer(c)))
}

func (s *Server) finishAuction(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, found := s.auctions[c.Param("id")]
	if !found {
		fail(c, http.StatusNotFound, "Auction not found")
		return
	}
	if a.UserID != viewer(c) {
		fail(c, http.StatusForbidden, "Only the seller can finish the auction")
		return
	}
	if a.Transaction != nil {
		fail(c, http.StatusBadRequest, "Auction already finished")
		return
	}
	if len(a.Bids) == 0 {
		fail(c, http.StatusBadRequest, "Auction has no bids")
		return
	}
	s.openTransaction(a, a.Bids[0])
	ok(c, http.StatusOK, "Auction finished", s.present(a, viewer(c)))
}

// openTransaction settles a with winning bid b. Callers hold mu.
func (s *Server) openTransaction(a *domain.Auction, b domain.Bid) *domain.Transaction {
	now := s.now()
	id := uuid.NewString()
	snap := "snap-" + id
	direct := "https://pay.hypebid.example/" + snap
	tx := &domain.Transaction{
		ID: id, Amount: b.Amount, Status: domain.TransactionPending,
		SnapToken: &snap, DirectURL: &direct,
		AuctionID: a.ID, UserID: b.UserID,
		CreatedAt: now, UpdatedAt: now,
	}
	s.transactions[id] = tx
	a.Transaction = &domain.Transaction{ID: id, Status: tx.Status, UserID: b.UserID}
	a.End = now
	return tx
}

func (s *Server) listBids(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Bid, 0)
	for _, a := range s.auctions {
		for _, b := range a.Bids {
			if b.UserID == viewer(c) {
				pa := s.present(a, viewer(c))
				pa.Bids = nil
				b.Auction = &pa
				out = append(out, b)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	ok(c, http.StatusOK, "Success", out)
}

func (s *Server) placeBid(c *gin.Context) {
	var body struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid amount")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, found := s.auctions[c.Param("id")]
	if !found {
		fail(c, http.StatusNotFound, "Auction not found")
		return
	}
	if pa := s.present(a, viewer(c)); !pa.IsAbleToBid {
		fail(c, http.StatusBadRequest, "You are not able to bid on this auction")
		return
	}
	if body.Amount.LessThan(a.MinimumNextBid()) {
		fail(c, http.StatusBadRequest, "Bid is lower than the minimum")
		return
	}
	now := s.now()
	b := domain.Bid{ID: uuid.NewString(), Amount: body.Amount, AuctionID: a.ID, UserID: viewer(c), CreatedAt: now, UpdatedAt: now}
	a.Bids = append([]domain.Bid{b}, a.Bids...)

	if body.Amount.GreaterThanOrEqual(a.BuyNowPrice) {
		tx := s.openTransaction(a, b)
		ok(c, http.StatusCreated, "Congratulations, you won the auction", s.presentTx(tx, viewer(c)))
		return
	}
	ok(c, http.StatusCreated, "Bid placed", nil)
}

func (s *Server) visibleTx(c *gin.Context) (*domain.Transaction, bool) {
	tx, found := s.transactions[c.Param("id")]
	if !found {
		fail(c, http.StatusNotFound, "Transaction not found")
		return nil, false
	}
	a := s.auctions[tx.AuctionID]
	if tx.UserID != viewer(c) && (a == nil || a.UserID != viewer(c)) {
		fail(c, http.StatusNotFound, "Transaction not found")
		return nil, false
	}
	return tx, true
}

func (s *Server) listTransactions(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Transaction, 0)
	for _, tx := range s.transactions {
		if tx.UserID == viewer(c) {
			out = append(out, s.presentTx(tx, viewer(c)))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	ok(c, http.StatusOK, "Success", out)
}

func (s *Server) getTransaction(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, found := s.visibleTx(c)
	if !found {
		return
	}
	ok(c, http.StatusOK, "Success", s.presentTx(tx, viewer(c)))
}

func (s *Server) setLocation(c *gin.Context) {
	var body struct {
		Location string `json:"location"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Location == "" {
		fail(c, http.StatusBadRequest, "Location is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, found := s.visibleTx(c)
	if !found {
		return
	}
	tx.Location = &body.Location
	ok(c, http.StatusOK, "Location updated", s.presentTx(tx, viewer(c)))
}

func (s *Server) transition(c *gin.Context, from, to domain.TransactionStatus, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, found := s.visibleTx(c)
	if !found {
		return
	}
	if tx.Status != from {
		fail(c, http.StatusBadRequest, "Invalid transaction status")
		return
	}
	tx.Status = to
	tx.UpdatedAt = s.now()
	if a := s.auctions[tx.AuctionID]; a != nil && a.Transaction != nil {
		a.Transaction.Status = to
	}
	ok(c, http.StatusOK, msg, s.presentTx(tx, viewer(c)))
}

func (s *Server) markDelivered(c *gin.Context) {
	s.transition(c, domain.TransactionPaid, domain.TransactionDelivered, "Transaction delivered")
}

func (s *Server) markCompleted(c *gin.Context) {
	s.transition(c, domain.TransactionDelivered, domain.TransactionCompleted, "Transaction completed")
}

// MarkPaid simulates the payment gateway callback.
func (s *Server) MarkPaid(txID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tx, found := s.transactions[txID]; found {
		tx.Status = domain.TransactionPaid
		if a := s.auctions[tx.AuctionID]; a != nil && a.Transaction != nil {
			a.Transaction.Status = domain.TransactionPaid
		}
	}
}

func (s *Server) getAccount(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok(c, http.StatusOK, "Success", s.users[viewer(c)].user)
}

func (s *Server) updateAccount(c *gin.Context) {
	var body struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.users[viewer(c)]
	a.user.Name, a.user.Email, a.user.Phone = body.Name, body.Email, body.Phone
	ok(c, http.StatusOK, "Profile updated", a.user)
}

func (s *Server) updateImage(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		fail(c, http.StatusBadRequest, "Image is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.users[viewer(c)]
	img := "https://cdn.hypebid.example/" + fh.Filename
	a.user.Image = &img
	ok(c, http.StatusOK, "Profile picture updated", a.user)
}

func (s *Server) deleteImage(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.users[viewer(c)]
	a.user.Image = nil
	ok(c, http.StatusOK, "Profile picture removed", a.user)
}

func (s *Server) changePassword(c *gin.Context) {
	var body struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.users[viewer(c)]
	if a.password != body.OldPassword {
		fail(c, http.StatusBadRequest, "Old password is wrong")
		return
	}
	a.password = body.NewPassword
	ok(c, http.StatusOK, "Password changed", a.user)
}

func (s *Server) checkKYC(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if k, found := s.kyc[viewer(c)]; found {
		ok(c, http.StatusOK, "Success", k)
		return
	}
	ok(c, http.StatusOK, "Success", nil)
}

func (s *Server) verifyKYC(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		fail(c, http.StatusBadRequest, "Image is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "Image is unreadable")
		return
	}
	defer f.Close()
	data, _ := io.ReadAll(f)
	if len(strings.TrimSpace(string(data))) == 0 {
		fail(c, http.StatusBadRequest, "Image is empty")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := &domain.Kyc{
		ID: uuid.NewString(), UserID: viewer(c),
		Image:     "https://cdn.hypebid.example/" + fh.Filename,
		Status:    domain.KycPending,
		CreatedAt: s.now(),
	}
	s.kyc[viewer(c)] = k
	ok(c, http.StatusCreated, "KYC submitted", k)
}

func (s *Server) requestWithdraw(c *gin.Context) {
	var body struct {
		Amount  decimal.Decimal `json:"amount"`
		Bank    string          `json:"bank"`
		Account string          `json:"account"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.users[viewer(c)]
	if body.Amount.GreaterThan(a.user.Balance) {
		fail(c, http.StatusBadRequest, "Insufficient balance")
		return
	}
	a.user.Balance = a.user.Balance.Sub(body.Amount)
	a.user.PendingBalance = a.user.PendingBalance.Add(body.Amount)
	w := domain.Withdraw{
		ID: uuid.NewString(), Amount: body.Amount, Bank: body.Bank, Account: body.Account,
		Status: domain.WithdrawPending, UserID: viewer(c), CreatedAt: s.now(),
	}
	s.withdraws = append(s.withdraws, w)
	ok(c, http.StatusCreated, "Withdrawal requested", w)
}

func (s *Server) listWithdraws(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Withdraw, 0)
	for _, w := range s.withdraws {
		if w.UserID == viewer(c) {
			out = append(out, w)
		}
	}
	ok(c, http.StatusOK, "Success", out)
}
