package mockapi

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harvestgreens/storefront/internal/app/model"
	apperrors "github.com/harvestgreens/storefront/internal/errors"
	"github.com/harvestgreens/storefront/pkg/util"
)

const tokenExpiry = 24 * time.Hour

// Server is an in-memory stand-in for the remote storefront API. It exists
// for offline development and integration tests; nothing here persists.
type Server struct {
	secret string

	mu          sync.Mutex
	users       []registeredUser
	nextUserID  uint
	products    []model.Product
	categories  []model.Category
	orders      map[uint][]model.Order
	nextOrderID uint
	idempotency map[string]model.Order
}

type registeredUser struct {
	model.User
	PasswordHash string
}

// NewServer seeds the demo catalog and returns a server signing tokens with
// the given secret.
func NewServer(secret string) *Server {
	return &Server{
		secret:      secret,
		nextUserID:  1,
		products:    seedCatalog(),
		categories:  seedCategories(),
		orders:      make(map[uint][]model.Order),
		nextOrderID: 1,
		idempotency: make(map[string]model.Order),
	}
}

// Router builds the gin engine serving the mock API surface.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/login", s.handleLogin)
	r.POST("/signup", s.handleSignup)
	r.GET("/products", s.handleListProducts)
	r.GET("/products/:id", s.handleGetProduct)
	r.GET("/categories", s.handleListCategories)

	authed := r.Group("/")
	authed.Use(s.authMiddleware())
	{
		authed.POST("/orders", s.handleCreateOrder)
		authed.GET("/orders", s.handleListOrders)
		authed.GET("/me", s.handleMe)
	}

	return r
}

// authMiddleware validates the bearer token and stashes the caller's ID.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apperrors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Malformed authorization header")
			c.Abort()
			return
		}

		claims, err := util.ValidateToken(parts[1], s.secret)
		if err != nil {
			if err == util.ErrExpiredToken {
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenExpired, "Session has expired")
			} else {
				apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid authentication token")
			}
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Next()
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, req.Email) && util.VerifyPassword(u.PasswordHash, req.Password) {
			token, err := util.GenerateToken(u.ID, u.Email, s.secret, tokenExpiry)
			if err != nil {
				apperrors.InternalError(c, "")
				return
			}
			c.JSON(http.StatusOK, gin.H{"token": token, "user": u.User})
			return
		}
	}

	apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid email or password")
}

type signupRequest struct {
	Name                 string `json:"name" binding:"required"`
	Email                string `json:"email" binding:"required"`
	Mobile               string `json:"mobile"`
	Address              string `json:"address"`
	Password             string `json:"password" binding:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required"`
}

func (s *Server) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid signup details")
		return
	}
	if req.Password != req.PasswordConfirmation {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Passwords do not match")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, req.Email) {
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "An account with this email already exists")
			return
		}
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	user := registeredUser{
		User: model.User{
			ID:      s.nextUserID,
			Name:    req.Name,
			Email:   req.Email,
			Mobile:  req.Mobile,
			Address: req.Address,
		},
		PasswordHash: hash,
	}
	s.nextUserID++
	s.users = append(s.users, user)

	// Signup answers with the profile only; clients log in for a token.
	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"user":    user.User,
	})
}

func (s *Server) handleListProducts(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"data": s.products})
}

func (s *Server) handleGetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product ID")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.products {
		if p.ID == uint(id) {
			c.JSON(http.StatusOK, gin.H{"data": p})
			return
		}
	}
	apperrors.NotFound(c, apperrors.CatalogProductNotFound, "Product not found")
}

func (s *Server) handleListCategories(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"data": s.categories})
}

type createOrderRequest struct {
	UserID        uint              `json:"user_id"`
	TotalWeight   float64           `json:"total_weight"`
	Status        string            `json:"status"`
	OrderProducts []model.OrderLine `json:"order_products" binding:"required"`
}

func (s *Server) handleCreateOrder(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid order payload")
		return
	}
	if len(req.OrderProducts) == 0 {
		apperrors.BadRequest(c, apperrors.CartEmpty, "Order must contain at least one product")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Replayed idempotency keys return the original order instead of
	// creating a duplicate.
	idemKey := c.GetHeader("Idempotency-Key")
	if idemKey != "" {
		if existing, ok := s.idempotency[idemKey]; ok {
			c.JSON(http.StatusOK, gin.H{"message": "Order placed successfully", "order": existing})
			return
		}
	}

	for _, line := range req.OrderProducts {
		if !s.productExists(line.ProductID) {
			apperrors.RespondWithError(c, http.StatusUnprocessableEntity, apperrors.CatalogProductNotFound,
				"Product "+strconv.FormatUint(uint64(line.ProductID), 10)+" is not available")
			return
		}
	}

	status := model.OrderStatus(req.Status)
	if status == "" {
		status = model.StatusReceived
	}

	order := model.Order{
		ID:            s.nextOrderID,
		UserID:        userID,
		Status:        status,
		TotalWeight:   req.TotalWeight,
		OrderProducts: req.OrderProducts,
		CreatedAt:     time.Now().UTC(),
	}
	s.nextOrderID++
	s.orders[userID] = append(s.orders[userID], order)
	if idemKey != "" {
		s.idempotency[idemKey] = order
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Order placed successfully", "order": order})
}

func (s *Server) productExists(id uint) bool {
	for _, p := range s.products {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (s *Server) handleListOrders(c *gin.Context) {
	userID := c.GetUint("user_id")

	s.mu.Lock()
	defer s.mu.Unlock()

	orders := s.orders[userID]
	if orders == nil {
		orders = []model.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"data": orders})
}

func (s *Server) handleMe(c *gin.Context) {
	userID := c.GetUint("user_id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ID == userID {
			c.JSON(http.StatusOK, gin.H{"data": u.User})
			return
		}
	}
	apperrors.NotFound(c, apperrors.InternalStateError, "Account no longer exists")
}
