package main

import (
	"database/sql"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"storefront-backend/internal/cart"
	"storefront-backend/internal/config"
	"storefront-backend/internal/order"
	"storefront-backend/internal/product"
	"storefront-backend/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	app := fiber.New()
	setupCORS(app)
	app.Use(requestLog)

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()

	ensureSchema(db)
	seedProducts(db)

	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	productRepo := product.NewPostgresRepository(db)
	productService := product.NewService(productRepo)
	productHandler := product.NewHandler(productService)

	cartRepo := cart.NewPostgresRepository(db)
	cartService := cart.NewService(cartRepo, productService)
	cartHandler := cart.NewHandler(cartService)

	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo, productService, cartService)
	orderHandler := order.NewHandler(orderService)

	// public routes go in before the JWT middleware
	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	userHandler.RegisterProtectedRoutes(app)
	productHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)

	log.Printf("starting server on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func requestLog(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	log.Printf("%s %s -> %d (%s)", c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
	return err
}

func mustOpenDB(url string) *sql.DB {
	if url == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	return db
}

func ensureSchema(db *sql.DB) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
            "userId" SERIAL PRIMARY KEY,
            username TEXT NOT NULL UNIQUE,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            "isAdmin" BOOLEAN NOT NULL DEFAULT FALSE,
            cart jsonb NOT NULL DEFAULT '{}',
            "createdAt" TEXT,
            "updatedAt" TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            "productId" SERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT,
            price numeric NOT NULL DEFAULT 0 CHECK (price >= 0),
            stock INT NOT NULL DEFAULT 0 CHECK (stock >= 0),
            image TEXT,
            "createdAt" TEXT,
            "updatedAt" TEXT
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            "orderId" SERIAL PRIMARY KEY,
            "orderRef" TEXT NOT NULL UNIQUE,
            "userId" INT NOT NULL,
            items jsonb NOT NULL DEFAULT '[]',
            "shippingAddress" jsonb NOT NULL DEFAULT '{}',
            "paymentMethod" TEXT,
            "itemsPrice" numeric NOT NULL DEFAULT 0,
            "taxPrice" numeric NOT NULL DEFAULT 0,
            "shippingPrice" numeric NOT NULL DEFAULT 0,
            "totalPrice" numeric NOT NULL DEFAULT 0,
            "isPaid" BOOLEAN NOT NULL DEFAULT FALSE,
            "paidAt" TEXT,
            "paymentResult" jsonb,
            "isDelivered" BOOLEAN NOT NULL DEFAULT FALSE,
            "deliveredAt" TEXT,
            "createdAt" TEXT
        )`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			panic(err)
		}
	}
}

func seedProducts(db *sql.DB) {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&count); err != nil || count > 0 {
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)
	seed := []struct {
		name, desc, image string
		price             float64
		stock             int
	}{
		{"Wireless Mouse", "2.4GHz optical mouse", "/images/mouse.jpg", 24.99, 40},
		{"Mechanical Keyboard", "Tenkeyless, brown switches", "/images/keyboard.jpg", 89.90, 25},
		{"USB-C Hub", "7-in-1 hub with HDMI", "/images/hub.jpg", 39.50, 60},
		{"Laptop Stand", "Aluminium, foldable", "/images/stand.jpg", 31.00, 35},
	}
	for _, s := range seed {
		if _, err := db.Exec(`INSERT INTO products (name, description, price, stock, image, "createdAt", "updatedAt")
            VALUES ($1,$2,$3,$4,$5,$6,$7)`, s.name, s.desc, s.price, s.stock, s.image, now, now); err != nil {
			log.Printf("warning: could not seed product %q: %v", s.name, err)
		}
	}
}
