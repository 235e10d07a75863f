// Command smoke drives register, login and me against a running server.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type authResponse struct {
	Status  int    `json:"status"`
	Token   string `json:"token"`
	Message string `json:"message"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

var client = &http.Client{Timeout: 10 * time.Second}

func main() {
	base := flag.String("u", "http://localhost:8080", "server base URL")
	flag.Parse()

	fmt.Println("=== Accounts Backend Smoke Test ===")

	email := fmt.Sprintf("smoke-%s@example.com", uuid.NewString()[:8])
	password := "smoke-password"

	// 1. Register
	fmt.Println("\n1. Registering account...")
	var reg authResponse
	code := post(*base+"/auth/register", map[string]string{
		"organizationId": uuid.NewString(),
		"name":           "Smoke Test",
		"email":          email,
		"password":       password,
	}, &reg)
	expect(code, http.StatusCreated, reg.Message)
	fmt.Printf("✓ Registered %s\n", reg.Email)

	// 2. Duplicate
	fmt.Println("\n2. Registering the same email again...")
	var dup authResponse
	code = post(*base+"/auth/register", map[string]string{
		"organizationId": uuid.NewString(),
		"name":           "Smoke Test",
		"email":          email,
		"password":       password,
	}, &dup)
	expect(code, http.StatusConflict, dup.Message)
	fmt.Println("✓ Duplicate rejected")

	// 3. Login
	fmt.Println("\n3. Logging in...")
	var login authResponse
	code = post(*base+"/auth/login", map[string]string{"email": email, "password": password}, &login)
	expect(code, http.StatusOK, login.Message)
	fmt.Println("✓ Login succeeded")

	// 4. Wrong password
	fmt.Println("\n4. Logging in with a wrong password...")
	var bad authResponse
	code = post(*base+"/auth/login", map[string]string{"email": email, "password": "nope"}, &bad)
	expect(code, http.StatusUnauthorized, bad.Message)
	fmt.Println("✓ Wrong password rejected")

	// 5. Me
	fmt.Println("\n5. Fetching current account...")
	req, err := http.NewRequest(http.MethodGet, *base+"/auth/me", nil)
	if err != nil {
		log.Fatal("Request error:", err)
	}
	req.Header.Set("Authorization", "Bearer "+login.Token)
	resp, err := client.Do(req)
	if err != nil {
		log.Fatal("Failed to get /auth/me:", err)
	}
	defer resp.Body.Close()
	expect(resp.StatusCode, http.StatusOK, "")
	fmt.Println("✓ Token accepted")

	fmt.Println("\n=== Smoke test passed ===")
}

func post(url string, body any, out any) int {
	payload, err := json.Marshal(body)
	if err != nil {
		log.Fatal("Marshal error:", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		log.Fatalf("POST %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Fatalf("Decode %s response: %v", url, err)
	}
	return resp.StatusCode
}

func expect(got, want int, message string) {
	if got != want {
		log.Fatalf("unexpected status %d (want %d): %s", got, want, message)
	}
}
