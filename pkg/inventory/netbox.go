// Copyright (c) 2026, the sitemirror authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	apperrors "github.com/sitemirror/sitemirror/pkg/errors"
)

// netboxPageSize is the page size requested when listing devices.
const netboxPageSize = 100

// NetBox implements Directory against the NetBox DCIM REST API.
type NetBox struct {
	baseURL  string
	token    string
	vendor   string
	roles    map[string]struct{}
	insecure bool
	reader   *HttpReader
}

// NetBoxOption defines a configuration option for NetBox.
type NetBoxOption func(*NetBox)

// WithVendor overrides the manufacturer slug filter.
func WithVendor(slug string) NetBoxOption {
	return func(nb *NetBox) {
		nb.vendor = slug
	}
}

// WithRoles overrides the role allow-list.
func WithRoles(roles []string) NetBoxOption {
	return func(nb *NetBox) {
		nb.roles = make(map[string]struct{}, len(roles))
		for _, r := range roles {
			nb.roles[r] = struct{}{}
		}
	}
}

// WithInsecureTLS disables TLS certificate verification for API requests.
func WithInsecureTLS(skip bool) NetBoxOption {
	return func(nb *NetBox) {
		nb.insecure = skip
	}
}

// WithReader supplies a custom HttpReader; token and TLS options are ignored
// when set.
func WithReader(reader *HttpReader) NetBoxOption {
	return func(nb *NetBox) {
		nb.reader = reader
	}
}

// NewNetBox creates a NetBox directory for the given API base URL and token.
// By default results are filtered to DefaultVendor devices with roles in
// DefaultRoles.
func NewNetBox(baseURL, token string, options ...NetBoxOption) *NetBox {
	nb := &NetBox{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		vendor:  DefaultVendor,
		roles:   make(map[string]struct{}, len(DefaultRoles)),
	}
	for _, r := range DefaultRoles {
		nb.roles[r] = struct{}{}
	}

	for _, opt := range options {
		opt(nb)
	}

	if nb.reader == nil {
		nb.reader = NewHttpReader(
			WithHeader("Authorization", "Token "+nb.token),
			WithInsecureSkipVerify(nb.insecure),
		)
	}

	return nb
}

// siteList is the API response shape for site queries.
type siteList struct {
	Count   int `json:"count"`
	Results []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"results"`
}

// deviceList is one page of the API response for device queries.
type deviceList struct {
	Count   int            `json:"count"`
	Next    *string        `json:"next"`
	Results []deviceRecord `json:"results"`
}

type deviceRecord struct {
	Name string `json:"name"`
	Role struct {
		Slug string `json:"slug"`
	} `json:"role"`
	DeviceType struct {
		Manufacturer struct {
			Slug string `json:"slug"`
		} `json:"manufacturer"`
	} `json:"device_type"`
	PrimaryIP *struct {
		Address string `json:"address"`
	} `json:"primary_ip"`
}

// SiteDevices resolves the site and returns its filtered device set.
// An unknown site yields ErrCodeSiteNotFound; a known site with no matching
// devices yields an empty slice.
func (nb *NetBox) SiteDevices(ctx context.Context, site string) ([]Device, error) {
	siteID, err := nb.lookupSite(ctx, site)
	if err != nil {
		return nil, err
	}

	next := fmt.Sprintf("%s/api/dcim/devices/?site_id=%d&status=%s&limit=%d",
		nb.baseURL, siteID, StatusActive, netboxPageSize)

	devices := make([]Device, 0, netboxPageSize)
	for next != "" {
		data, err := nb.reader.ReadWithContext(ctx, next)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInventory,
				"failed to list site devices", err)
		}

		var page deviceList
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInventory,
				"failed to decode device list", err)
		}

		for _, rec := range page.Results {
			if !nb.admits(rec) {
				continue
			}
			devices = append(devices, toDevice(rec))
		}

		if page.Next != nil {
			next = *page.Next
		} else {
			next = ""
		}
	}

	slog.Debug("inventory resolved",
		slog.String("site", site),
		slog.Int("devices", len(devices)))
	return devices, nil
}

// lookupSite resolves a site name to its inventory ID.
func (nb *NetBox) lookupSite(ctx context.Context, site string) (int64, error) {
	endpoint := fmt.Sprintf("%s/api/dcim/sites/?name=%s", nb.baseURL, url.QueryEscape(site))

	data, err := nb.reader.ReadWithContext(ctx, endpoint)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrCodeInventory, "failed to query site", err)
	}

	var sites siteList
	if err := json.Unmarshal(data, &sites); err != nil {
		return 0, apperrors.Wrap(apperrors.ErrCodeInventory, "failed to decode site list", err)
	}

	if sites.Count == 0 || len(sites.Results) == 0 {
		return 0, apperrors.NewWithContext(apperrors.ErrCodeSiteNotFound,
			"site not found in inventory", map[string]any{"site": site})
	}

	return sites.Results[0].ID, nil
}

// admits applies the vendor and role filters. Records without a name cannot
// be keyed and are dropped.
func (nb *NetBox) admits(rec deviceRecord) bool {
	if rec.Name == "" {
		return false
	}
	if rec.DeviceType.Manufacturer.Slug != nb.vendor {
		return false
	}
	_, ok := nb.roles[rec.Role.Slug]
	return ok
}

func toDevice(rec deviceRecord) Device {
	d := Device{
		Name: rec.Name,
		Role: rec.Role.Slug,
	}
	if rec.PrimaryIP != nil {
		d.MgmtAddr = StripPrefixLen(rec.PrimaryIP.Address)
	}
	return d
}
