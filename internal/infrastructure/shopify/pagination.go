package shopify

import (
	"net/url"
	"strings"
)

// NextPageInfo extrae el cursor page_info del enlace rel="next" de un header Link, o "".
//
//	Link: <https://x.myshopify.com/admin/api/2024-10/products.json?limit=250&page_info=abc>; rel="next"
func NextPageInfo(link string) string {
	for _, part := range strings.Split(link, ",") {
		segs := strings.Split(part, ";")
		if len(segs) < 2 {
			continue
		}
		isNext := false
		for _, attr := range segs[1:] {
			if strings.TrimSpace(attr) == `rel="next"` {
				isNext = true
				break
			}
		}
		if !isNext {
			continue
		}
		raw := strings.Trim(strings.TrimSpace(segs[0]), "<>")
		u, err := url.Parse(raw)
		if err != nil {
			return ""
		}
		return u.Query().Get("page_info")
	}
	return ""
}
