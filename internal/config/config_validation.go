// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net/netip"
	"strings"
)

// minTokenSignKeyLength is the shortest HMAC secret accepted at startup.
const minTokenSignKeyLength = 16

// validate checks that the final merged [StructuredConfig] satisfies the
// server's invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if len(cfg.App.TokenSignKey) < minTokenSignKeyLength {
		return fmt.Errorf("%w: token sign key must be at least %d bytes", ErrInvalidAppConfigs, minTokenSignKeyLength)
	}
	if cfg.App.TokenIssuer == "" || cfg.App.TokenDuration <= 0 || cfg.App.PasswordResetTTL <= 0 {
		return fmt.Errorf("%w: token issuer, token duration and reset ttl are required", ErrInvalidAppConfigs)
	}

	if strings.TrimSpace(cfg.Storage.DB.DSN) == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" {
		return fmt.Errorf("%w: http address is required", ErrInvalidServerConfigs)
	}
	if cfg.Server.RequestTimeout <= 0 || cfg.Server.AuthRateLimit <= 0 {
		return fmt.Errorf("%w: request timeout and auth rate limit must be positive", ErrInvalidServerConfigs)
	}
	if _, err := ParseTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidServerConfigs, err)
	}

	if (cfg.Adapter.Facebook.AppID == "") != (cfg.Adapter.Facebook.AppSecret == "") {
		return fmt.Errorf("%w: facebook app id and secret must be set together", ErrInvalidAdapterConfigs)
	}

	return nil
}

// ParseTrustedProxies turns trusted proxy entries into prefixes. A bare
// address is treated as a single-host range.
func ParseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}

	return prefixes, nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	return nil
}
