package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// UserData holds reviewer preferences that are stored locally
type UserData struct {
	ReviewerName string    `json:"reviewer_name"`
	LastAsset    string    `json:"last_asset"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	path string
}

// LoadUserData loads user data from $HOME/.r2review/user.data. A missing or
// unreadable file yields empty defaults.
func LoadUserData() (*UserData, error) {
	path, err := getUserDataPath()
	if err != nil {
		return createDefaultUserData(""), nil
	}
	return LoadUserDataFrom(path), nil
}

// LoadUserDataFrom reads user data from path, falling back to defaults.
func LoadUserDataFrom(path string) *UserData {
	data, err := os.ReadFile(path)
	if err != nil {
		return createDefaultUserData(path)
	}

	var userData UserData
	if err := json.Unmarshal(data, &userData); err != nil {
		return createDefaultUserData(path)
	}
	userData.path = path
	return &userData
}

// Save writes the user data back to the file it was loaded from.
func (ud *UserData) Save() error {
	if ud.path == "" {
		path, err := getUserDataPath()
		if err != nil {
			return err
		}
		ud.path = path
	}

	ud.UpdatedAt = time.Now()
	if ud.CreatedAt.IsZero() {
		ud.CreatedAt = ud.UpdatedAt
	}

	data, err := json.MarshalIndent(ud, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(ud.path, data, 0644)
}

// SetReviewerName stores the display name used for new comments.
func (ud *UserData) SetReviewerName(name string) error {
	ud.ReviewerName = name
	return ud.Save()
}

// SetLastAsset remembers the asset that was open when the workspace closed.
func (ud *UserData) SetLastAsset(key string) error {
	ud.LastAsset = key
	return ud.Save()
}

// ResolveAuthor picks the comment author: configured name first, then the
// stored reviewer name, then the login name.
func ResolveAuthor(cfg *Config, ud *UserData) string {
	if cfg != nil && cfg.Review.Author != "" {
		return cfg.Review.Author
	}
	if ud != nil && ud.ReviewerName != "" {
		return ud.ReviewerName
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "anonymous"
}

func createDefaultUserData(path string) *UserData {
	now := time.Now()
	return &UserData{
		CreatedAt: now,
		UpdatedAt: now,
		path:      path,
	}
}

func getUserDataPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(homeDir, ".r2review")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", err
	}

	return filepath.Join(configDir, "user.data"), nil
}
