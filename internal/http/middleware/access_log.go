package middleware

import (
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
)

// combinedFormat renders one line in the Apache combined log format.
func combinedFormat(p gin.LogFormatterParams) string {
	proto, referer, agent := "HTTP/1.1", "", ""
	if p.Request != nil {
		proto = p.Request.Proto
		referer = p.Request.Referer()
		agent = p.Request.UserAgent()
	}
	return fmt.Sprintf("%s - - [%s] \"%s %s %s\" %d %d \"%s\" \"%s\"\n",
		p.ClientIP,
		p.TimeStamp.Format("02/Jan/2006:15:04:05 -0700"),
		p.Method,
		p.Path,
		proto,
		p.StatusCode,
		p.BodySize,
		referer,
		agent,
	)
}

// AccessLog writes every request to out in combined format. Scrapes of
// /metrics are skipped.
func AccessLog(out io.Writer) gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: combinedFormat,
		Output:    out,
		SkipPaths: []string{"/metrics"},
	})
}
