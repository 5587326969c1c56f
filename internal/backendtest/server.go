package backendtest

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Production response messages the mobile classifier keys on. Keep these
// byte-identical to the deployed backend.
const (
	MsgPhoneTaken     = "Телефон уже зарегистрирован"
	MsgPhoneUnknown   = "Данный телефон не зарегистрирован"
	MsgUsernameTaken  = "Логин уже занят"
	MsgCodeIncorrect  = "Неверный или истёкший код"
	MsgBadCredentials = "Неверный телефон или пароль"
	MsgCodeSent       = "Код отправлен"
	MsgOK             = "Успешно"
)

const codeTTL = 5 * time.Minute

type account struct {
	Username  string
	Password  string
	Email     string
	FirstName string
	LastName  string
}

type issuedCode struct {
	Code      string
	ExpiresAt time.Time
}

// Server holds the fake backend's state: registered accounts and
// outstanding verification codes, both keyed by phone digits.
type Server struct {
	mu        sync.Mutex
	accounts  map[string]account
	usernames map[string]string
	codes     map[string]issuedCode
	jwtSecret []byte

	// FixedCode, when non-empty, is issued instead of a random code so
	// tests can submit a known value.
	FixedCode string

	now func() time.Time
}

// New returns an empty backend.
func New() *Server {
	return &Server{
		accounts:  make(map[string]account),
		usernames: make(map[string]string),
		codes:     make(map[string]issuedCode),
		jwtSecret: []byte(uuid.NewString()),
		now:       time.Now,
	}
}

// Seed registers an account directly, bypassing the verification flow.
func (s *Server) Seed(phone, username, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[phone] = account{Username: username, Password: password}
	s.usernames[username] = phone
}

// LastCode returns the outstanding verification code for phone, or "".
func (s *Server) LastCode(phone string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[phone].Code
}

// Registered reports whether phone has an account.
func (s *Server) Registered(phone string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.accounts[phone]
	return ok
}

// Handler returns the /auth route table.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/request-registration-code", s.requestRegistrationCode).Methods(http.MethodPost)
	r.HandleFunc("/auth/request-phone-verification", s.requestPhoneVerification).Methods(http.MethodPost)
	r.HandleFunc("/auth/verify-phone", s.verifyPhone).Methods(http.MethodPost)
	r.HandleFunc("/auth/register", s.register).Methods(http.MethodPost)
	r.HandleFunc("/auth/forgot-password", s.forgotPassword).Methods(http.MethodPost)
	r.HandleFunc("/auth/reset-password", s.resetPassword).Methods(http.MethodPost)
	r.HandleFunc("/auth/change-password", s.changePassword).Methods(http.MethodPost)
	return r
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "Некорректный JSON")
		return false
	}
	return true
}

func generateCode() string {
	b := make([]byte, 2)
	_, _ = rand.Read(b)
	return fmt.Sprintf("%04d", (uint(b[0])<<8|uint(b[1]))%10000)
}

func (s *Server) issueCode(phone string) string {
	code := s.FixedCode
	if code == "" {
		code = generateCode()
	}
	s.codes[phone] = issuedCode{Code: code, ExpiresAt: s.now().Add(codeTTL)}
	return code
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	acc, ok := s.accounts[req.Phone]
	s.mu.Unlock()
	if !ok || acc.Password != req.Password {
		writeMessage(w, http.StatusUnauthorized, MsgBadCredentials)
		return
	}

	access, err := s.signToken(req.Phone, 15*time.Minute)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Ошибка выпуска токена")
		return
	}
	refresh, err := s.signToken(req.Phone, 30*24*time.Hour)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Ошибка выпуска токена")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message":       MsgOK,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (s *Server) signToken(phone string, ttl time.Duration) (string, error) {
	now := s.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   phone,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})
	return tok.SignedString(s.jwtSecret)
}

func (s *Server) requestRegistrationCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Phone]; exists {
		writeMessage(w, http.StatusConflict, MsgPhoneTaken)
		return
	}
	s.issueCode(req.Phone)
	writeMessage(w, http.StatusOK, MsgCodeSent)
}

func (s *Server) requestPhoneVerification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issueCode(req.Phone)
	writeMessage(w, http.StatusOK, MsgCodeSent)
}

// forgotPassword issues a reset code whether or not the phone is
// registered, matching the production handler's enumeration-safe reply.
func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Phone]; exists {
		s.issueCode(req.Phone)
	}
	writeMessage(w, http.StatusOK, MsgCodeSent)
}

func (s *Server) verifyPhone(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
		Code  string `json:"code"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	issued, ok := s.codes[req.Phone]
	if !ok || issued.Code != req.Code || s.now().After(issued.ExpiresAt) {
		writeMessage(w, http.StatusBadRequest, MsgCodeIncorrect)
		return
	}
	// Consumed: a code confirms at most once.
	delete(s.codes, req.Phone)
	writeMessage(w, http.StatusOK, MsgOK)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username  string `json:"username"`
		Password  string `json:"password"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Phone]; exists {
		writeMessage(w, http.StatusConflict, MsgPhoneTaken)
		return
	}
	if _, exists := s.usernames[req.Username]; exists {
		writeMessage(w, http.StatusConflict, MsgUsernameTaken)
		return
	}
	s.accounts[req.Phone] = account{
		Username:  req.Username,
		Password:  req.Password,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	s.usernames[req.Username] = req.Phone
	writeMessage(w, http.StatusCreated, MsgOK)
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone       string `json:"phone"`
		NewPassword string `json:"newPassword"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[req.Phone]
	if !ok {
		writeMessage(w, http.StatusBadRequest, MsgPhoneUnknown)
		return
	}
	acc.Password = req.NewPassword
	s.accounts[req.Phone] = acc
	writeMessage(w, http.StatusOK, MsgOK)
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone       string `json:"phone"`
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if !decode(w, r, &req) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[req.Phone]
	if !ok || acc.Password != req.OldPassword {
		writeMessage(w, http.StatusBadRequest, MsgBadCredentials)
		return
	}
	acc.Password = req.NewPassword
	s.accounts[req.Phone] = acc
	writeMessage(w, http.StatusOK, MsgOK)
}
