package utils

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultLinkExpiry is how long a review link stays valid.
const DefaultLinkExpiry = 24 * time.Hour

// Presigner signs GET URLs for bucket keys.
type Presigner interface {
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Links holds the URLs a reviewer can share for one asset.
type Links struct {
	Custom    string
	Presigned string
}

// Preferred returns the custom-domain URL when there is one.
func (l Links) Preferred() string {
	if l.Custom != "" {
		return l.Custom
	}
	return l.Presigned
}

// LinkGenerator builds review links for assets.
type LinkGenerator struct {
	presigner    Presigner
	customDomain string
	expires      time.Duration
}

func NewLinkGenerator(presigner Presigner, customDomain string, expires time.Duration) *LinkGenerator {
	if expires <= 0 {
		expires = DefaultLinkExpiry
	}
	return &LinkGenerator{
		presigner:    presigner,
		customDomain: customDomain,
		expires:      expires,
	}
}

// Generate returns every link for key. The custom URL is empty without a custom domain.
func (g *LinkGenerator) Generate(ctx context.Context, key string) (Links, error) {
	links := Links{Custom: g.CustomDomainURL(key)}

	presigned, err := g.presigner.PresignGet(ctx, key, g.expires)
	if err != nil {
		logrus.Errorf("Failed to generate presigned URL for %s: %v", key, err)
		return links, err
	}
	links.Presigned = presigned
	return links, nil
}

// CustomDomainURL returns the public URL of key on the custom domain, or "".
func (g *LinkGenerator) CustomDomainURL(key string) string {
	domain := g.customDomain
	if domain == "" {
		return ""
	}

	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.TrimSuffix(domain, "/")

	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("https://%s/%s", domain, strings.Join(segments, "/"))
}
