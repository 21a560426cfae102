package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/youruser/votecard/internal/contestant"
	"github.com/youruser/votecard/internal/errs"
	imagepkg "github.com/youruser/votecard/internal/image"
)

const (
	msgFetchFailed    = "Failed to fetch contestant data"
	msgGenerateFailed = "Failed to generate vote image"
)

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}

// qr endpoint returns a PNG of a QR for "text" query param
func qrHandler(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required", "code": "bad_request"})
		return
	}
	size := 400
	if v, err := strconv.Atoi(c.Query("size")); err == nil && v > 0 {
		size = min(v, 2048)
	}
	b, err := imagepkg.GenerateQRPNG(text, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, imagepkg.ContentType, b)
}

// generateHandler renders the card for a contestant slug.
func (s *Server) generateHandler(c *gin.Context) {
	b, _, err := s.Cards.Generate(c.Request.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, imagepkg.ContentType, b)
}

// rosterHandler renders the card for the index-th contestant of a contest.
func (s *Server) rosterHandler(c *gin.Context) {
	if s.Roster == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "contest lookups are not configured", "code": "not_configured"})
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be a non-negative integer", "code": "bad_request"})
		return
	}
	b, _, err := s.Roster.Generate(c.Request.Context(), contestant.RosterID(c.Param("contest"), index))
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, imagepkg.ContentType, b)
}

// fail logs the underlying cause and answers with a client-safe message.
func fail(c *gin.Context, err error) {
	c.Error(err)
	if errors.Is(err, contestant.ErrInvalidIdentifier) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contestant identifier", "code": "bad_request"})
		return
	}
	msg := msgGenerateFailed
	if errs.IsUpstream(err) {
		msg = msgFetchFailed
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg, "code": errs.Kind(err)})
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Voting card</title>
</head>
<body>
<form id="f">
  <input id="slug" placeholder="contestant slug" required>
  <button type="submit">Generate</button>
</form>
<img id="card" alt="" style="max-width:100%">
<p id="err"></p>
<script>
document.getElementById('f').addEventListener('submit', function (e) {
  e.preventDefault();
  var slug = encodeURIComponent(document.getElementById('slug').value);
  fetch('/voting/generate/' + slug, {method: 'POST'})
    .then(function (r) {
      if (!r.ok) { return r.json().then(function (j) { throw new Error(j.error); }); }
      return r.blob();
    })
    .then(function (b) {
      document.getElementById('err').textContent = '';
      document.getElementById('card').src = URL.createObjectURL(b);
    })
    .catch(function (err) { document.getElementById('err').textContent = err.message; });
});
</script>
</body>
</html>`
