//go:build integration
// +build integration

package integration

import (
	"context"
	"os/exec"
	"testing"
	"time"
)

// composeService is the docker compose service that runs the storefront.
var composeService = getenv("E2E_COMPOSE_SERVICE", "storefront")

// restartAndWait bounces the storefront container and blocks until /readyz
// answers again. The catalog is rebuilt from its seed on the way up.
func restartAndWait(t *testing.T, ctx context.Context) {
	t.Helper()

	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not available; skipping restart check")
	}

	start := time.Now()
	out, err := exec.CommandContext(ctx, "docker", "compose", "restart", "--timeout", "10", composeService).CombinedOutput()
	if err != nil {
		t.Fatalf("restart %s: %v\n%s", composeService, err, out)
	}

	waitReady(t, ctx, baseURL+"/readyz")
	t.Logf("%s back after %s", composeService, time.Since(start).Round(time.Millisecond))
}
