package importer_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/pitangasoft/compras_backend/config"
	"github.com/pitangasoft/compras_backend/importer"
	"github.com/pitangasoft/compras_backend/models"
	"github.com/pitangasoft/compras_backend/utils"
)

func TestImportPurchasesEndToEnd(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := context.Background()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	// Wire env for config.Connect* helpers.
	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "compras_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	if err := models.MigrateTable(); err != nil {
		t.Fatalf("MigrateTable: %v", err)
	}

	ctx = utils.SetBusinessIdInContext(ctx, "biz-import-test")
	ctx = utils.SetUserIdInContext(ctx, 7)

	branch, err := models.CreateBranch(ctx, &models.NewBranch{Name: "Matriz"})
	if err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}

	csvData := strings.Join([]string{
		"CNPJ Fornecedor;Descrição;Data;Qtd;Vlr Unit;Total",
		"12.345.678/0001-95;Café Torrado 500g;05/01/2024;3;10,50;",
		"12345678000195;CAFE TORRADO 500G;05/01/2024;2;;21,00",
		";Açúcar Cristal 1kg;45000;;4,20;",
		";;;;;",
	}, "\n")

	batch, err := importer.ReadCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	report, err := importer.ImportPurchases(ctx, branch.ID, batch)
	if err != nil {
		t.Fatalf("ImportPurchases: %v", err)
	}
	if report.FailureReason != nil {
		t.Fatalf("unexpected rejection: %s", *report.FailureReason)
	}
	if report.ImportedCount != 3 {
		t.Fatalf("expected 3 imported, got %d", report.ImportedCount)
	}

	// Both coffee spellings must land on one product; the sugar row books
	// against the generic supplier.
	products, err := models.GetProducts(ctx)
	if err != nil {
		t.Fatalf("GetProducts: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}

	suppliers, err := models.GetSuppliers(ctx)
	if err != nil {
		t.Fatalf("GetSuppliers: %v", err)
	}
	if len(suppliers) != 2 {
		t.Fatalf("expected 2 suppliers, got %d", len(suppliers))
	}
	var generic *models.Supplier
	for _, s := range suppliers {
		if s.Document == models.GenericSupplierDocument {
			generic = s
		}
	}
	if generic == nil {
		t.Fatal("generic supplier was not created")
	}

	orders, err := models.GetPurchaseOrders(ctx)
	if err != nil {
		t.Fatalf("GetPurchaseOrders: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}
	for _, order := range orders {
		if order.Total.IsZero() && !order.UnitPrice.IsZero() {
			t.Fatalf("order %d total was not derived", order.ID)
		}
		if order.CreatedBy != 7 {
			t.Fatalf("order %d missing creating user, got %d", order.ID, order.CreatedBy)
		}
	}

	// A second run over the same sheet must reuse the existing catalog rows,
	// including the generic supplier.
	batch2, err := importer.ReadCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	report2, err := importer.ImportPurchases(ctx, branch.ID, batch2)
	if err != nil {
		t.Fatalf("ImportPurchases rerun: %v", err)
	}
	if report2.ImportedCount != 3 {
		t.Fatalf("expected 3 imported on rerun, got %d", report2.ImportedCount)
	}
	suppliersAfter, err := models.GetSuppliers(ctx)
	if err != nil {
		t.Fatalf("GetSuppliers: %v", err)
	}
	if len(suppliersAfter) != 2 {
		t.Fatalf("rerun must not create suppliers, got %d", len(suppliersAfter))
	}
	productsAfter, err := models.GetProducts(ctx)
	if err != nil {
		t.Fatalf("GetProducts: %v", err)
	}
	if len(productsAfter) != 2 {
		t.Fatalf("rerun must not create products, got %d", len(productsAfter))
	}
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("compras-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("compras-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=compras_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
