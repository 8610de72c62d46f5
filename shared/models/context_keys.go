package models

// UserContextKey is the gin context key under which the authorization middleware
// stores the *User re-fetched from the store.
const UserContextKey = "currentUser"
