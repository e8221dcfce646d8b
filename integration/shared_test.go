//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// fixtureReference is the newest invitation in the leads fixture.
var fixtureReference = time.Date(2026, time.March, 31, 10, 0, 0, 0, time.UTC)

// fixtureDays is the number of consecutive days covered by the leads fixture.
const fixtureDays = 60

var (
	// sharedLeadpulsePath holds the path to a shared leadpulse binary built once for all tests.
	sharedLeadpulsePath string

	// sharedFixturePath holds the path to the leads CSV written once for all tests.
	sharedFixturePath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getLeadpulseBinary returns the path to the leadpulse binary, building it and
// the leads fixture once if needed.
func getLeadpulseBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "leadpulse-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		leadpulsePath := filepath.Join(tempDir, "leadpulse")
		buildCmd := exec.Command("go", "build", "-o", leadpulsePath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build leadpulse: %v", err))
		}

		fixturePath := filepath.Join(tempDir, "leads.csv")
		if err := os.WriteFile(fixturePath, []byte(leadsFixture()), 0o644); err != nil {
			panic(fmt.Sprintf("failed to write fixture: %v", err))
		}

		sharedLeadpulsePath = leadpulsePath
		sharedFixturePath = fixturePath
	})

	return sharedLeadpulsePath
}

// leadsFixture renders one lead per day ending at fixtureReference.
func leadsFixture() string {
	sources := []string{"Indeed", "Referral", "LinkedIn"}
	var b strings.Builder
	b.WriteString("INVITATIONDT,CAMPAIGNTITLE,SOURCE,ASSIGNEDMANAGER,FOLDER,COMPLETIONMETHOD,CAMPAIGN_TYPE,CAMPAIGN_SITE,REPEATAPPLICATION\n")
	for i := range fixtureDays {
		ts := fixtureReference.AddDate(0, 0, -i)
		repeat := "f"
		if i%4 == 0 {
			repeat = "t"
		}
		fmt.Fprintf(&b, "%s,Spring Hiring,%s,Dana,Inbox,Phone,Outbound,Manila,%s\n",
			ts.Format("2006-01-02 15:04:05"), sources[i%len(sources)], repeat)
	}
	return b.String()
}

// runLeadpulse runs the shared binary from the project root and returns its stdout.
func runLeadpulse(t *testing.T, args ...string) ([]byte, error) {
	leadpulsePath := getLeadpulseBinary()
	cmd := exec.Command(leadpulsePath, args...)
	cmd.Dir = "../" // Run from project root
	var stderr strings.Builder
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), string(output), stderr.String())
		return output, err
	}
	return output, nil
}
