package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/acq-directory/modules/directory/infrastructure/source"
	"github.com/iota-uz/acq-directory/modules/directory/presentation/viewmodels"
	"github.com/iota-uz/acq-directory/modules/directory/services"
)

const testPersonsCSV = "service_agency,organization_type,organization_name,organization_abbreviation,parent_organization,name,position,position_type,status,location,mission_area\n" +
	"Army,CPE,CPE Soldier,CPE-S,,Erin Stone,Capability Program Executive,CPE,Nominated,Fort Belvoir,\"Soldier, Lethality\"\n" +
	"Army,PM,PM Soldier Lethality,PM SL,CPE Soldier,Frank Hill,Project Manager,PM,Confirmed,Fort Belvoir,Lethality\n" +
	"Navy,PEO,PEO Ships,,,Dan Brooks,Program Executive Officer,PEO,Confirmed,Washington Navy Yard,Ships\n"

const testRelationshipsCSV = "child_entity,child_type,parent_entity,parent_type,relationship_type\n" +
	"PM Soldier Lethality,PM,CPE Soldier,CPE,Reports_To\n" +
	"PEO Ghost,PEO,ASN(RDA),ASN,Reports_To\n"

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func writeTables(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, source.DefaultPersonsFile), []byte(testPersonsCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, source.DefaultRelationshipsFile), []byte(testRelationshipsCSV), 0o644))
	return dir
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestStats(t *testing.T) {
	dir := writeTables(t)

	res := runCLI(t, "", "stats", "--data-dir", dir)
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "DIRECTORY DATA QUALITY REPORT")
	assert.Contains(t, res.stdout, "Total records:       3")

	res = runCLI(t, "", "stats", "--data-dir", dir, "--format", "json", "--service", "Army")
	require.Equal(t, exitOK, res.code, res.stderr)
	var report services.QualityReport
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &report))
	assert.Equal(t, 2, report.TotalRecords)
	assert.Equal(t, 2, report.TotalRelationships)
}

func TestSearch(t *testing.T) {
	dir := writeTables(t)

	res := runCLI(t, "", "search", "--data-dir", dir, "erin")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, `query "erin"`)
	assert.Contains(t, res.stdout, "Erin Stone")

	res = runCLI(t, "", "search", "--data-dir", dir)
	assert.Equal(t, exitUsage, res.code)
}

func TestSearch_InteractiveDebounce(t *testing.T) {
	dir := writeTables(t)

	res := runCLI(t, "da\ndan brooks\n", "search", "--data-dir", dir, "--interactive", "--debounce", "50ms")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, 1, strings.Count(res.stdout, "query "), res.stdout)
	assert.Contains(t, res.stdout, `query "dan brooks"`)
	assert.Contains(t, res.stdout, "Dan Brooks")

	res = runCLI(t, "d\n", "search", "--data-dir", dir, "-i")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, `query "d": 0 result(s)`)
}

func TestFilterAndShow(t *testing.T) {
	dir := writeTables(t)

	res := runCLI(t, "", "filter", "--data-dir", dir, "--service", "Navy", "--format", "json")
	require.Equal(t, exitOK, res.code, res.stderr)
	var persons []viewmodels.Person
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &persons))
	require.Len(t, persons, 1)
	assert.Equal(t, "Dan Brooks", persons[0].Name)

	res = runCLI(t, "", "show", "--data-dir", dir, persons[0].ID)
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Dan Brooks")
	assert.Contains(t, res.stdout, "Washington Navy Yard")

	res = runCLI(t, "", "show", "--data-dir", dir, "missing-id")
	assert.Equal(t, exitValidation, res.code)
	assert.Contains(t, res.stderr, "not found")

	res = runCLI(t, "", "filter", "--data-dir", dir, "--status", "Confirmed", "--format", "yaml")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "name: Dan Brooks")
	assert.Contains(t, res.stdout, "name: Frank Hill")
	assert.NotContains(t, res.stdout, "Erin Stone")
}

func TestHierarchy(t *testing.T) {
	dir := writeTables(t)

	res := runCLI(t, "", "hierarchy", "--data-dir", dir, "army", "--tree")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Army\n")
	assert.Contains(t, res.stdout, "  CPE Soldier (CPE-S) [1]\n")
	assert.Contains(t, res.stdout, "    PM Soldier Lethality (PM SL) [1]\n")
	assert.NotContains(t, res.stdout, "Navy")

	res = runCLI(t, "", "hierarchy", "--data-dir", dir, "Coast Guard")
	assert.Equal(t, exitValidation, res.code)
}

func TestValues(t *testing.T) {
	dir := writeTables(t)

	res := runCLI(t, "", "values", "--data-dir", dir, "service_agency")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "Army\nNavy\n", res.stdout)

	res = runCLI(t, "", "values", "--data-dir", dir, "mission_area", "-q", "leth")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Lethality")

	res = runCLI(t, "", "values", "--data-dir", dir, "favourite_color")
	assert.Equal(t, exitUsage, res.code)
}

func TestRelationshipsCheck(t *testing.T) {
	dir := writeTables(t)

	res := runCLI(t, "", "relationships", "check", "--data-dir", dir)
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "relationships: 2, matched: 1, issues: 1")
	assert.Contains(t, res.stdout, "PEO Ghost -> ASN(RDA)")

	res = runCLI(t, "", "relationships", "check", "--data-dir", dir, "--fail-on-issues")
	assert.Equal(t, exitValidation, res.code)

	res = runCLI(t, "", "relationships", "list", "--data-dir", dir)
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "PM Soldier Lethality -[Reports_To]-> CPE Soldier")
}

func TestExport(t *testing.T) {
	dir := writeTables(t)

	res := runCLI(t, "", "export", "--data-dir", dir, "--service", "Navy")
	require.Equal(t, exitOK, res.code, res.stderr)
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(services.ExportHeader, ","), lines[0])
	assert.Contains(t, lines[1], `"Dan Brooks"`)

	out := filepath.Join(t.TempDir(), "directory.xlsx")
	res = runCLI(t, "", "export", "--data-dir", dir, "--format", "xlsx", "-o", out)
	require.Equal(t, exitOK, res.code, res.stderr)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))

	res = runCLI(t, "", "export", "--data-dir", dir, "--format", "xlsx")
	assert.Equal(t, exitUsage, res.code)
}

func TestExitCodes(t *testing.T) {
	res := runCLI(t, "", "stats", "--data-dir", filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, exitLoad, res.code)
	assert.Contains(t, res.stderr, "table not found")

	dir := writeTables(t)
	res = runCLI(t, "", "stats", "--data-dir", dir, "--format", "xml")
	assert.Equal(t, exitUsage, res.code)

	res = runCLI(t, "", "stats", "--data-dir", dir, "--no-such-flag")
	assert.Equal(t, exitUsage, res.code)

	res = runCLI(t, "", "show", "--data-dir", dir)
	assert.Equal(t, exitUsage, res.code)
}
