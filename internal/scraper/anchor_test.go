package scraper

import (
	"net/url"
	"strings"
	"testing"

	"github.com/jimezsa/govjobalert/internal/models"
)

func TestAnchorFPSC(t *testing.T) {
	src := DefaultSources()[0]
	if src.Name != SiteFPSC {
		t.Fatalf("first default source = %s, want FPSC", src.Name)
	}
	doc := mustDoc(t, `<html><body>
  <a href="/jobs/view/9">Inspector</a>
  <a href="/about">About</a>
</body></html>`)

	postings := Anchor{}.Extract(doc, src)
	if len(postings) != 1 {
		t.Fatalf("expected 1 posting, got %d: %+v", len(postings), postings)
	}
	want := models.Posting{Title: "Inspector", Link: "https://fpsc.gov.pk/jobs/view/9", Source: SiteFPSC}
	if postings[0] != want {
		t.Fatalf("posting = %+v, want %+v", postings[0], want)
	}
}

func TestAnchorFiltering(t *testing.T) {
	src := models.Source{Name: "NTS", URL: "https://www.nts.org.pk/new/Allresults.php", Strategy: models.StrategyAnchor}
	doc := mustDoc(t, `<html><body>
  <a href="JobDetails.php?id=1">  Data Entry Operator  </a>
  <a href="/JOBS/2"><span>Accountant</span></a>
  <a href="/careers/3">Careers</a>
  <a href="/jobs/4">   </a>
  <a href="https://jobs.example.com/about">Host only</a>
  <a href="/list?type=job">Query only</a>
  <a>No href job</a>
  <a href="javascript:openJob()">Script</a>
</body></html>`)

	postings := Anchor{}.Extract(doc, src)
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d: %+v", len(postings), postings)
	}
	if postings[0].Title != "Data Entry Operator" || postings[0].Link != "https://www.nts.org.pk/new/JobDetails.php?id=1" {
		t.Fatalf("unexpected first posting: %+v", postings[0])
	}
	if postings[1].Title != "Accountant" || postings[1].Link != "https://www.nts.org.pk/JOBS/2" {
		t.Fatalf("unexpected second posting: %+v", postings[1])
	}
	for _, p := range postings {
		u, err := url.Parse(p.Link)
		if err != nil {
			t.Fatalf("link %q: %v", p.Link, err)
		}
		if !strings.Contains(strings.ToLower(u.Path), "job") {
			t.Fatalf("link path %q lacks job", u.Path)
		}
		if strings.TrimSpace(p.Title) == "" {
			t.Fatalf("empty title in %+v", p)
		}
		if p.Source != "NTS" {
			t.Fatalf("source = %q", p.Source)
		}
	}
}

func TestAnchorKeepsDuplicates(t *testing.T) {
	src := models.Source{Name: "X", URL: "https://x.test/", Strategy: models.StrategyAnchor}
	doc := mustDoc(t, `<a href="/job/1">Clerk</a><a href="/job/1">Clerk</a>`)
	if got := len(Anchor{}.Extract(doc, src)); got != 2 {
		t.Fatalf("expected duplicates to reach the tracker, got %d postings", got)
	}
}

func TestAnchorIgnoresPageRelativeNavigation(t *testing.T) {
	src := DefaultSources()[0]
	doc := mustDoc(t, `<html><body>
  <a href="#">Home</a>
  <a href="?page=2">Next</a>
  <a href="contact.php">Contact Us</a>
  <a href="/jobs/view/9">Inspector</a>
</body></html>`)

	postings := Anchor{}.Extract(doc, src)
	if len(postings) != 1 {
		t.Fatalf("expected 1 posting, got %d: %+v", len(postings), postings)
	}
	if postings[0].Title != "Inspector" || postings[0].Link != "https://fpsc.gov.pk/jobs/view/9" {
		t.Fatalf("unexpected posting: %+v", postings[0])
	}
}

func TestIsJobLink(t *testing.T) {
	cases := []struct {
		href string
		want bool
	}{
		{"", false},
		{"#", false},
		{"?page=2", false},
		{"contact.php", false},
		{"/list?type=job", false},
		{"https://jobs.example.com/about", false},
		{"javascript:openJob()", false},
		{"JobDetails.php?id=1", true},
		{"/JOBS/2", true},
		{"https://example.com/careers/job-7", true},
	}
	for _, tc := range cases {
		if got := isJobLink(tc.href); got != tc.want {
			t.Fatalf("isJobLink(%q) = %v, want %v", tc.href, got, tc.want)
		}
	}
}

func TestAnchorTitleSpansMarkup(t *testing.T) {
	src := DefaultSources()[0]
	doc := mustDoc(t, `<a href="/jobs/view/3"><b>Deputy</b>
    Registrar</a>`)
	postings := Anchor{}.Extract(doc, src)
	if len(postings) != 1 || postings[0].Title != "Deputy Registrar" {
		t.Fatalf("postings = %+v", postings)
	}
}
