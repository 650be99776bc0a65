package seo

import (
	"fmt"
	"net/url"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	siteGroup = "site"
	homeRoute = "home"
)

// URLs builds absolute canonical URLs for collection pages.
type URLs struct {
	manager *urlkit.RouteManager
	origin  string
}

// NewURLs registers one route per collection page under the site base URL.
func NewURLs(baseURL string, collections ...Collection) (*URLs, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("seo: base url %q must be absolute", baseURL)
	}

	paths := map[string]string{homeRoute: "/"}
	for _, collection := range collections {
		if collection.Name == "" || collection.PagePath == "" {
			continue
		}
		paths[collection.Name] = "/" + strings.TrimLeft(collection.PagePath, "/")
	}

	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    siteGroup,
				BaseURL: base.String(),
				Paths:   paths,
			},
		},
	})

	return &URLs{
		manager: manager,
		origin:  base.Scheme + "://" + base.Host,
	}, nil
}

// Origin is the scheme and host of the site.
func (u *URLs) Origin() string {
	if u == nil {
		return ""
	}
	return u.origin
}

// List returns the canonical URL of a collection page.
func (u *URLs) List(collection string) (string, error) {
	return u.build(collection, nil)
}

// Detail returns the canonical URL of one item.
func (u *URLs) Detail(collection, param, slug string) (string, error) {
	return u.build(collection, map[string]string{param: slug})
}

// Absolute prefixes site-relative paths with the origin. Values that are
// already absolute are returned unchanged.
func (u *URLs) Absolute(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || strings.HasPrefix(path, "http") {
		return path
	}
	return u.Origin() + "/" + strings.TrimLeft(path, "/")
}

func (u *URLs) build(route string, query map[string]string) (string, error) {
	if u == nil || u.manager == nil {
		return "", fmt.Errorf("seo: route manager not configured")
	}
	group, err := lookupGroup(u.manager, siteGroup)
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, route)
	if err != nil {
		return "", err
	}
	for key, value := range query {
		builder.WithQuery(key, value)
	}
	return builder.Build()
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("seo: urlkit group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			builder = nil
			err = fmt.Errorf("seo: route %q not registered: %v", route, rec)
		}
	}()
	builder = group.Builder(route)
	return builder, nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			group = nil
			err = fmt.Errorf("seo: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, nil
}
