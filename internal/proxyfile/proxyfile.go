// Package proxyfile loads and formats proxy lists. Files carry one proxy per
// line in the raw form host:port[:user:pass]; formatted proxies are URLs of
// the form http://[user:pass@]host:port.
package proxyfile

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

// Load reads the raw proxy lines from the file, skipping blanks.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var proxies []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			proxies = append(proxies, line)
		}
	}
	return proxies, scanner.Err()
}

// Format converts a raw host:port[:user:pass] proxy into a URL.
func Format(raw string) (string, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 2 && len(parts) != 4 {
		return "", fmt.Errorf("proxyfile: malformed proxy %q", raw)
	}
	host, port := parts[0], parts[1]
	if host == "" || port == "" {
		return "", fmt.Errorf("proxyfile: malformed proxy %q", raw)
	}
	if len(parts) == 4 {
		return fmt.Sprintf("http://%s:%s@%s:%s", parts[2], parts[3], host, port), nil
	}
	return fmt.Sprintf("http://%s:%s", host, port), nil
}

// Random returns a random formatted proxy URL from the file, or "" when the
// file holds no proxies.
func Random(path string) (string, error) {
	proxies, err := Load(path)
	if err != nil {
		return "", err
	}
	if len(proxies) == 0 {
		return "", nil
	}
	return Format(proxies[rand.Intn(len(proxies))])
}

// All returns every proxy in the file in formatted form.
func All(path string) ([]string, error) {
	proxies, err := Load(path)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(proxies))
	for _, raw := range proxies {
		formatted, err := Format(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, formatted)
	}
	return out, nil
}

// ToRaw converts a formatted proxy URL back to the raw host:port[:user:pass]
// form. Unrecognized inputs yield "".
func ToRaw(formatted string) string {
	rest, ok := strings.CutPrefix(formatted, "http://")
	if !ok {
		return ""
	}
	creds, hostPort, hasCreds := strings.Cut(rest, "@")
	if !hasCreds {
		return rest
	}
	host, port, ok := strings.Cut(hostPort, ":")
	if !ok {
		return ""
	}
	user, pass, ok := strings.Cut(creds, ":")
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%s:%s:%s", host, port, user, pass)
}
