package handlers

import (
	"encoding/xml"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type SitemapURL struct {
	Loc        string  `xml:"loc"`
	LastMod    string  `xml:"lastmod,omitempty"`
	ChangeFreq string  `xml:"changefreq,omitempty"`
	Priority   float32 `xml:"priority,omitempty"`
}

type SitemapURLSet struct {
	XMLName string       `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// GetSitemapHandler lists the indexable pages. /lead is noindex and left out.
func GetSitemapHandler(c echo.Context) error {
	baseURL := strings.TrimRight(getConfig(c).AppURL, "/")

	urlSet := SitemapURLSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []SitemapURL{
			{Loc: baseURL + "/", ChangeFreq: "weekly", Priority: 1.0},
		},
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationXML)
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}

	encoder := xml.NewEncoder(c.Response().Writer)
	encoder.Indent("", "  ")
	return encoder.Encode(urlSet)
}

// RobotsHandler serves robots.txt pointing at the sitemap
func RobotsHandler(c echo.Context) error {
	baseURL := strings.TrimRight(getConfig(c).AppURL, "/")
	body := "User-agent: *\nAllow: /\nDisallow: /api/\nDisallow: /dev/\n\nSitemap: " + baseURL + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}
