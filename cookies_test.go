package requestspro

import (
	"net/http"
	"testing"
)

func TestJarLastWriteWinsListForm(t *testing.T) {
	jar := NewJar()
	resp := &Response{StatusCode: 200, Header: http.Header{}}
	resp.Header.Add("Set-Cookie", "token=first; Domain=a.example.com; Path=/")
	resp.Header.Add("Set-Cookie", "token=second; Domain=b.example.com; Path=/")

	syncCookies(jar, resp)

	if jar.Len() != 1 {
		t.Fatalf("Expected exactly one live cookie per name, got %d", jar.Len())
	}
	cookie, _ := jar.Get("token")
	if cookie.Value != "second" {
		t.Errorf("Expected last write to win, got %s", cookie.Value)
	}
	if cookie.Domain != "b.example.com" {
		t.Errorf("Expected domain of the last write, got %s", cookie.Domain)
	}
}

func TestJarLastWriteWinsCombinedForm(t *testing.T) {
	jar := NewJar()
	resp := &Response{StatusCode: 200, Header: http.Header{}}
	resp.Header.Set("Set-Cookie", "token=first; Path=/, token=second; Path=/login")

	syncCookies(jar, resp)

	if jar.Len() != 1 {
		t.Fatalf("Expected one cookie, got %d", jar.Len())
	}
	cookie, _ := jar.Get("token")
	if cookie.Value != "second" {
		t.Errorf("Expected last write to win in combined form, got %s", cookie.Value)
	}
}

func TestSyncSkipsEmptyValues(t *testing.T) {
	jar := NewJar()
	jar.Set("keep", "original", "example.com")

	resp := &Response{StatusCode: 200, Header: http.Header{}}
	resp.Header.Add("Set-Cookie", "keep=; Max-Age=0")
	resp.Header.Add("Set-Cookie", "fresh=value1")

	syncCookies(jar, resp)

	cookie, ok := jar.Get("keep")
	if !ok || cookie.Value != "original" {
		t.Errorf("Expected blank-value entry treated as a no-op, got %+v", cookie)
	}
	if _, ok := jar.Get("fresh"); !ok {
		t.Error("Expected fresh cookie inserted")
	}
}

func TestSplitSetCookieHeaderWithExpiresDate(t *testing.T) {
	header := "a=1; Expires=Wed, 21 Oct 2026 07:28:00 GMT; Path=/, b=2; Path=/x"
	parts := splitSetCookieHeader(header)
	if len(parts) != 2 {
		t.Fatalf("Expected 2 cookies, got %d: %v", len(parts), parts)
	}
	if parts[0] != "a=1; Expires=Wed, 21 Oct 2026 07:28:00 GMT; Path=/" {
		t.Errorf("Expected the date comma kept inside cookie a, got %q", parts[0])
	}
	if parts[1] != "b=2; Path=/x" {
		t.Errorf("Expected cookie b split out, got %q", parts[1])
	}
}

func TestDeleteIsNameScopedAcrossDomains(t *testing.T) {
	jar := NewJar()
	jar.SetCookie(&Cookie{Name: "sid", Value: "1", Domain: "a.example.com"})
	// name-scoped replacement removes the other domain's entry too
	jar.Set("sid", "2", "b.example.com")

	if jar.Len() != 1 {
		t.Fatalf("Expected a single sid cookie jar-wide, got %d", jar.Len())
	}
	cookie, _ := jar.Get("sid")
	if cookie.Domain != "b.example.com" || cookie.Value != "2" {
		t.Errorf("Expected the newest entry to survive, got %+v", cookie)
	}
}

func TestJarDeleteAndClear(t *testing.T) {
	jar := NewJar()
	jar.Set("a", "1", "")
	jar.Set("b", "2", "")
	jar.Set("c", "3", "")

	jar.Delete("a", "c")
	if jar.Len() != 1 {
		t.Fatalf("Expected 1 cookie after delete, got %d", jar.Len())
	}
	if _, ok := jar.Get("b"); !ok {
		t.Error("Expected cookie b to survive")
	}

	jar.Set("d", "4", "")
	jar.Clear("b")
	if jar.Len() != 1 {
		t.Fatalf("Expected only the skipped cookie after clear, got %d", jar.Len())
	}
	if _, ok := jar.Get("b"); !ok {
		t.Error("Expected skipped cookie b to survive clear")
	}
}

func TestJarUpdateAndMap(t *testing.T) {
	jar := NewJar()
	jar.Update(map[string]string{"x": "1", "y": "2"})

	m := jar.Map()
	if m["x"] != "1" || m["y"] != "2" {
		t.Errorf("Expected both cookies present, got %v", m)
	}
}

func TestJarOnChangeFires(t *testing.T) {
	jar := NewJar()
	fired := 0
	jar.onChange = func() { fired++ }

	jar.Set("a", "1", "")
	jar.Delete("a")
	jar.Delete("missing") // no-op, must not fire
	jar.SetCookie(&Cookie{Name: "b", Value: "2"})
	jar.Clear()

	if fired != 4 {
		t.Errorf("Expected 4 change notifications, got %d", fired)
	}
}

func TestCookieCloneIsDeep(t *testing.T) {
	expires := int64(1700000000)
	port := "443"
	original := &Cookie{
		Name:    "full",
		Value:   "v",
		Rest:    map[string]string{"HttpOnly": ""},
		Expires: &expires,
		Port:    &port,
	}
	jar := NewJar()
	jar.SetCookie(original)

	original.Rest["HttpOnly"] = "changed"
	stored, _ := jar.Get("full")
	if stored.Rest["HttpOnly"] != "" {
		t.Error("Expected the jar to hold an independent copy of rest attributes")
	}
}
