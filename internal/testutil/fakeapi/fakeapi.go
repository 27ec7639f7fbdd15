// Package fakeapi is an in-memory stand-in for the booking REST backend,
// served by gin on an httptest server.
package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Row is one stored record, as decoded from JSON.
type Row = map[string]any

// idFields maps each collection to its primary key field.
var idFields = map[string]string{
	"accounts":           "accountID",
	"roles":              "roleID",
	"careprofiles":       "careProfileID",
	"relatives":          "relativeID",
	"servicetypes":       "serviceID",
	"zonedetails":        "zoneDetailID",
	"nursingspecialists": "nursingID",
	"Booking":            "bookingID",
	"CustomizePackage":   "customizePackageID",
	"CustomizeTask":      "customizeTaskID",
	"Invoice":            "invoiceID",
	"wallets":            "walletID",
	"TransactionHistory": "transactionHistoryID",
	"Notification":       "notificationID",
}

type login struct {
	password string
	account  Row
	token    string
}

type failure struct {
	status int
	body   string
}

// Server is the fake backend.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	data     map[string][]Row
	logins   map[string]login
	calls    map[string]int
	failures map[string]failure
	delay    time.Duration
	lastAuth string
}

// New starts a fake backend with empty collections.
func New() *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		data:     make(map[string][]Row),
		logins:   make(map[string]login),
		calls:    make(map[string]int),
		failures: make(map[string]failure),
	}
	engine := gin.New()
	engine.Any("/*path", s.dispatch)
	s.Server = httptest.NewServer(engine)
	return s
}

// Seed appends records to a collection. Values are converted through JSON.
func (s *Server) Seed(collection string, records ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		raw, err := json.Marshal(r)
		if err != nil {
			panic(err)
		}
		var row Row
		if err := json.Unmarshal(raw, &row); err != nil {
			panic(err)
		}
		s.data[collection] = append(s.data[collection], row)
	}
}

// AddLogin registers credentials accepted by POST /api/accounts/login.
func (s *Server) AddLogin(emailOrPhone, password string, account any, token string) {
	raw, _ := json.Marshal(account)
	var row Row
	_ = json.Unmarshal(raw, &row)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logins[emailOrPhone] = login{password: password, account: row, token: token}
}

// Fail makes every call of "METHOD /path" answer status with body.
func (s *Server) Fail(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, body: body}
}

// SetDelay holds every response for d.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// Calls counts requests to "METHOD /path".
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" "+path]
}

// LastAuthorization is the Authorization header of the latest request.
func (s *Server) LastAuthorization() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAuth
}

// Row returns a copy of a stored record, or nil.
func (s *Server) Row(collection string, id int64) Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, row := s.find(collection, id); row != nil {
		out := make(Row, len(row))
		for k, v := range row {
			out[k] = v
		}
		return out
	}
	return nil
}

func (s *Server) dispatch(c *gin.Context) {
	path := c.Param("path")
	key := c.Request.Method + " " + path

	s.mu.Lock()
	s.calls[key]++
	s.lastAuth = c.GetHeader("Authorization")
	delay := s.delay
	fail, failing := s.failures[key]
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-c.Request.Context().Done():
			return
		}
	}
	if failing {
		c.Data(fail.status, "application/json", []byte(fail.body))
		return
	}

	var body Row
	if c.Request.ContentLength != 0 && c.Request.Body != nil {
		_ = json.NewDecoder(c.Request.Body).Decode(&body)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seg := strings.Split(strings.Trim(path, "/"), "/")
	if len(seg) < 2 || seg[0] != "api" {
		c.JSON(http.StatusNotFound, gin.H{"message": "no route"})
		return
	}
	method := c.Request.Method

	switch {
	case method == http.MethodPost && path == "/api/accounts/login":
		s.login(c, body)
	case method == http.MethodPost && path == "/api/accounts/register/customer":
		s.register(c, body)
	case method == http.MethodPost && path == "/api/Invoice":
		s.payInvoice(c, body)
	case method == http.MethodPut && len(seg) == 4 && seg[1] == "Booking" && seg[2] == "Cancel":
		s.cancelBooking(c, seg[3])
	case method == http.MethodPost && len(seg) == 4 && seg[1] == "TransactionHistory" && seg[2] == "RefundMoneyToWallet":
		s.refund(c, seg[3])
	case method == http.MethodPut && len(seg) == 5 && seg[1] == "CustomizeTask" && seg[2] == "UpdateNursing":
		s.assignNursing(c, seg[3], seg[4])
	case method == http.MethodGet && len(seg) == 4 && seg[1] == "Notification" && seg[2] == "GetNotificationsByAccount":
		s.filtered(c, "Notification", "accountID", seg[3])
	case method == http.MethodPut && len(seg) == 4 && seg[1] == "Notification" && seg[2] == "IsRead":
		s.markRead(c, seg[3])
	default:
		s.crud(c, method, seg, body)
	}
}

func (s *Server) crud(c *gin.Context, method string, seg []string, body Row) {
	collection := seg[1]
	idField, known := idFields[collection]
	if !known || len(seg) < 3 {
		c.JSON(http.StatusNotFound, gin.H{"message": "unknown resource " + collection})
		return
	}

	switch {
	case method == http.MethodGet && seg[2] == "GetAll":
		rows := s.data[collection]
		if rows == nil {
			rows = []Row{}
		}
		c.JSON(http.StatusOK, rows)
	case method == http.MethodGet && seg[2] == "get" && len(seg) == 4:
		if _, row := s.find(collection, parseID(seg[3])); row != nil {
			c.JSON(http.StatusOK, row)
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"message": collection + " not found"})
	case method == http.MethodPost && seg[2] == "create":
		if body == nil {
			c.JSON(http.StatusBadRequest, gin.H{"title": "body is required"})
			return
		}
		body[idField] = float64(s.nextID(collection))
		if collection == "Booking" {
			if _, ok := body["status"]; !ok {
				body["status"] = "pending"
			}
		}
		s.data[collection] = append(s.data[collection], body)
		c.JSON(http.StatusOK, body)
	case method == http.MethodPut && seg[2] == "update" && len(seg) == 4:
		_, row := s.find(collection, parseID(seg[3]))
		if row == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": collection + " not found"})
			return
		}
		for k, v := range body {
			if k != idField {
				row[k] = v
			}
		}
		c.JSON(http.StatusOK, row)
	case method == http.MethodDelete && seg[2] == "delete" && len(seg) == 4:
		i, row := s.find(collection, parseID(seg[3]))
		if row == nil {
			c.JSON(http.StatusNotFound, gin.H{"message": collection + " not found"})
			return
		}
		s.data[collection] = append(s.data[collection][:i], s.data[collection][i+1:]...)
		c.JSON(http.StatusOK, "Deleted successfully")
	default:
		c.JSON(http.StatusNotFound, gin.H{"message": "no route"})
	}
}

func (s *Server) login(c *gin.Context, body Row) {
	user, _ := body["emailOrPhoneNumber"].(string)
	password, _ := body["password"].(string)
	l, ok := s.logins[user]
	if !ok || l.password != password {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": l.account, "token": l.token})
}

func (s *Server) register(c *gin.Context, body Row) {
	for _, a := range s.data["accounts"] {
		if a["email"] == body["email"] {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already exists"})
			return
		}
	}
	delete(body, "password")
	body["accountID"] = float64(s.nextID("accounts"))
	body["roleID"] = float64(4)
	body["status"] = "active"
	s.data["accounts"] = append(s.data["accounts"], body)
	c.JSON(http.StatusOK, body)
}

func (s *Server) cancelBooking(c *gin.Context, id string) {
	_, row := s.find("Booking", parseID(id))
	if row == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Booking not found"})
		return
	}
	row["status"] = "cancelled"
	c.JSON(http.StatusOK, "Booking cancelled")
}

func (s *Server) payInvoice(c *gin.Context, body Row) {
	bookingID := toInt64(body["bookingID"])
	_, booking := s.find("Booking", bookingID)
	if booking == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Booking not found"})
		return
	}
	amount, _ := booking["amount"].(float64)
	if wallet := s.walletOfBooking(booking); wallet != nil {
		balance, _ := wallet["amount"].(float64)
		if balance < amount {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Insufficient balance"})
			return
		}
		wallet["amount"] = balance - amount
	}
	invoice := Row{
		"invoiceID":   float64(s.nextID("Invoice")),
		"bookingID":   float64(bookingID),
		"content":     body["content"],
		"status":      "paid",
		"totalAmount": amount,
	}
	s.data["Invoice"] = append(s.data["Invoice"], invoice)
	c.JSON(http.StatusOK, invoice)
}

func (s *Server) refund(c *gin.Context, id string) {
	_, invoice := s.find("Invoice", parseID(id))
	if invoice == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invoice not found"})
		return
	}
	invoice["status"] = "refunded"
	_, booking := s.find("Booking", toInt64(invoice["bookingID"]))
	if wallet := s.walletOfBooking(booking); wallet != nil {
		balance, _ := wallet["amount"].(float64)
		amount, _ := invoice["totalAmount"].(float64)
		wallet["amount"] = balance + amount
	}
	c.JSON(http.StatusOK, "Refunded")
}

func (s *Server) walletOfBooking(booking Row) Row {
	if booking == nil {
		return nil
	}
	_, profile := s.find("careprofiles", toInt64(booking["careProfileID"]))
	if profile == nil {
		return nil
	}
	for _, w := range s.data["wallets"] {
		if toInt64(w["accountID"]) == toInt64(profile["accountID"]) {
			return w
		}
	}
	return nil
}

func (s *Server) assignNursing(c *gin.Context, taskID, nursingID string) {
	_, task := s.find("CustomizeTask", parseID(taskID))
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
		return
	}
	task["nursingID"] = float64(parseID(nursingID))
	c.JSON(http.StatusOK, task)
}

func (s *Server) filtered(c *gin.Context, collection, field, value string) {
	want := parseID(value)
	out := []Row{}
	for _, row := range s.data[collection] {
		if toInt64(row[field]) == want {
			out = append(out, row)
		}
	}
	if len(out) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No notifications"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) markRead(c *gin.Context, id string) {
	_, row := s.find("Notification", parseID(id))
	if row == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Notification not found"})
		return
	}
	row["isRead"] = true
	c.JSON(http.StatusOK, row)
}

func (s *Server) find(collection string, id int64) (int, Row) {
	field := idFields[collection]
	for i, row := range s.data[collection] {
		if toInt64(row[field]) == id {
			return i, row
		}
	}
	return -1, nil
}

func (s *Server) nextID(collection string) int64 {
	field := idFields[collection]
	var max int64
	for _, row := range s.data[collection] {
		if id := toInt64(row[field]); id > max {
			max = id
		}
	}
	return max + 1
}

func parseID(s string) int64 {
	id, _ := strconv.ParseInt(s, 10, 64)
	return id
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case string:
		return parseID(n)
	default:
		return 0
	}
}

// String identifies the server in test failure messages.
func (s *Server) String() string {
	return fmt.Sprintf("fakeapi(%s)", s.URL)
}
