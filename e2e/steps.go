//go:build e2e

package e2e

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
)

// RegisterSteps registers all step definitions.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	ctx.Step(`^the platform is running$`, tc.platformIsRunning)

	// Tenant administration
	ctx.Step(`^I create a tenant with slug "([^"]*)"$`, tc.createTenant)
	ctx.Step(`^a tenant "([^"]*)" exists$`, tc.createTenant)
	ctx.Step(`^I deactivate tenant "([^"]*)"$`, tc.deactivateTenant)

	// Domain claims
	ctx.Step(`^tenant "([^"]*)" claims domain "([^"]*)"$`, tc.claimDomain)
	ctx.Step(`^tenant "([^"]*)" requests its domain status$`, tc.requestDomainStatus)
	ctx.Step(`^tenant "([^"]*)" removes domain "([^"]*)"$`, tc.removeDomain)
	ctx.Step(`^the verification poll cycle runs$`, tc.runPollCycle)

	// Host resolution
	ctx.Step(`^I resolve host "([^"]*)"$`, tc.resolveHost)

	// Rate limiting
	ctx.Step(`^I resolve host "([^"]*)" (\d+) times$`, tc.resolveHostNTimes)

	// Assertions
	ctx.Step(`^the response status should be (\d+)$`, tc.responseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, tc.responseShouldContain)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, tc.responseFieldShouldEqual)
	ctx.Step(`^the response should include verification artifacts$`, tc.responseShouldIncludeArtifacts)
	ctx.Step(`^the response should include a Retry-After header$`, tc.responseShouldIncludeRetryAfter)
}

func (tc *TestContext) platformIsRunning() error {
	if err := tc.Do(http.MethodGet, "/health/live", nil, nil); err != nil {
		return fmt.Errorf("platform not reachable at %s: %w", tc.BaseURL, err)
	}
	if tc.LastResponse.StatusCode != http.StatusOK {
		return fmt.Errorf("liveness probe returned %d", tc.LastResponse.StatusCode)
	}
	return nil
}

func (tc *TestContext) createTenant(slug string) error {
	err := tc.Do(http.MethodPost, "/admin/tenants",
		map[string]string{"slug": slug, "name": "E2E " + slug}, tc.adminHeaders())
	if err != nil {
		return err
	}
	if tc.LastResponse.StatusCode != http.StatusCreated {
		return fmt.Errorf("create tenant %q returned %d: %s", slug, tc.LastResponse.StatusCode, tc.LastResponseBody)
	}
	id, err := tc.ResponseField("tenant_id")
	if err != nil {
		return err
	}
	tc.TenantIDs[slug] = fmt.Sprint(id)
	return nil
}

func (tc *TestContext) deactivateTenant(slug string) error {
	id, ok := tc.TenantIDs[slug]
	if !ok {
		return fmt.Errorf("unknown tenant slug %q", slug)
	}
	return tc.Do(http.MethodPost, "/admin/tenants/"+id+"/deactivate", nil, tc.adminHeaders())
}

func (tc *TestContext) claimDomain(slug, domain string) error {
	id, ok := tc.TenantIDs[slug]
	if !ok {
		return fmt.Errorf("unknown tenant slug %q", slug)
	}
	return tc.Do(http.MethodPost, "/api/domains",
		map[string]string{"domain": domain},
		map[string]string{"X-Sudsy-Tenant-ID": id})
}

func (tc *TestContext) requestDomainStatus(slug string) error {
	id, ok := tc.TenantIDs[slug]
	if !ok {
		return fmt.Errorf("unknown tenant slug %q", slug)
	}
	return tc.Do(http.MethodGet, "/api/domains", nil, map[string]string{"X-Sudsy-Tenant-ID": id})
}

func (tc *TestContext) removeDomain(slug, domain string) error {
	id, ok := tc.TenantIDs[slug]
	if !ok {
		return fmt.Errorf("unknown tenant slug %q", slug)
	}
	return tc.Do(http.MethodDelete, "/api/domains/"+domain, nil, map[string]string{"X-Sudsy-Tenant-ID": id})
}

func (tc *TestContext) runPollCycle() error {
	return tc.Do(http.MethodPost, "/internal/cron/verify-domains", nil,
		map[string]string{"X-Cron-Secret": tc.CronSecret})
}

func (tc *TestContext) resolveHost(host string) error {
	return tc.DoWithHost("/resolve", host)
}

func (tc *TestContext) resolveHostNTimes(host string, n int) error {
	for i := 0; i < n; i++ {
		if err := tc.DoWithHost("/resolve", host); err != nil {
			return err
		}
	}
	return nil
}

func (tc *TestContext) responseStatusShouldBe(expected int) error {
	if tc.LastResponse == nil {
		return fmt.Errorf("no response captured")
	}
	if tc.LastResponse.StatusCode != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, tc.LastResponse.StatusCode, tc.LastResponseBody)
	}
	return nil
}

func (tc *TestContext) responseShouldContain(substr string) error {
	if !strings.Contains(string(tc.LastResponseBody), substr) {
		return fmt.Errorf("response does not contain %q: %s", substr, tc.LastResponseBody)
	}
	return nil
}

func (tc *TestContext) responseFieldShouldEqual(field, expected string) error {
	value, err := tc.ResponseField(field)
	if err != nil {
		return err
	}
	if fmt.Sprint(value) != expected {
		return fmt.Errorf("field %q is %v, expected %q", field, value, expected)
	}
	return nil
}

func (tc *TestContext) responseShouldIncludeArtifacts() error {
	for _, field := range []string{"verification_token", "cname_target", "txt_record_name", "txt_value"} {
		if _, err := tc.ResponseField(field); err != nil {
			return err
		}
	}
	return nil
}

func (tc *TestContext) responseShouldIncludeRetryAfter() error {
	if tc.LastResponse.Header.Get("Retry-After") == "" {
		return fmt.Errorf("Retry-After header missing")
	}
	return nil
}
