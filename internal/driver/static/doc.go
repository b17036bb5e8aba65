// Package static implements a page driver that fetches articles over plain
// HTTP and queries the returned HTML.
//
// Pages are parsed with golang.org/x/net/html and queried with goquery, so
// no browser is needed. This matches what Wikipedia serves to a browser
// closely enough for the first-link rules, because article bodies are
// rendered server side.
//
// # Politeness
//
// Requests are paced by a token bucket (golang.org/x/time/rate) and carry a
// descriptive User-Agent. Response bodies are capped with io.LimitReader.
//
// # Proxies
//
// An optional SOCKS5 proxy (for example a local Tor daemon) can be used for
// all requests through NewHTTPClient.
//
// # Usage
//
//	client, err := static.NewHTTPClient("", 30*time.Second)
//	if err != nil {
//	    return err
//	}
//	drv := static.New(client, static.WithDelay(500*time.Millisecond))
//	defer drv.Close()
//	if err := drv.NavigateRandom(ctx); err != nil {
//	    return err
//	}
package static
