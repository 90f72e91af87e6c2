// Package userdsdk provides a Go client for the userd user management
// service.
//
// # Quick Start
//
//	client := userdsdk.NewClient("http://localhost:8080")
//
//	// Register a user (no authentication required)
//	user, err := client.CreateUser(ctx, userdsdk.CreateUserRequest{
//		Email:     "alice@example.com",
//		Username:  "alice",
//		Password:  "Sup3rSecret",
//		FirstName: "Alice",
//		LastName:  "Smith",
//	})
//
//	// Log in to obtain an access token
//	token, err := client.Login(ctx, "alice@example.com", "Sup3rSecret")
//
//	// Use the token for authenticated operations
//	me, err := client.GetUser(ctx, token.AccessToken, token.UserID)
//
// # Errors
//
// All methods return *APIError for non-success responses. Use errors.As to
// inspect the status code and machine-readable error code:
//
//	var apiErr *userdsdk.APIError
//	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
//		// email or username already taken
//	}
package userdsdk
