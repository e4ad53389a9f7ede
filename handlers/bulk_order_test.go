package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"bulkorder/config"
	"bulkorder/services"
	"bulkorder/testhelpers"
)

func TestHandleBulkOrderPage_FullPage(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleBulkOrderPage(app, testConfig())

	req := withTestSession(httptest.NewRequest(http.MethodGet, "/bulk-order", nil))
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body,
		"<!DOCTYPE html>",
		`id="line-by-line-order"`,
		`class="input-row-container"`,
		`id="sku_1"`,
		`id="qty_1"`,
		`placeholder="SKU 1"`,
		`placeholder="Quantity 1"`,
		`id="bulk_paste"`,
		`id="bulk-order"`,
		`id="order-type-button"`,
		"Paste products and quantities",
		`id="row_count" name="row_count" value="1"`,
		"Adding to Shopping Cart...",
		testCSRFToken,
		config.DefaultSubmitURL,
	)
	testhelpers.AssertHTMLNotContains(t, body, `id="sku_2"`)
}

func TestHandleBulkOrderPage_HTMXPartial(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleBulkOrderPage(app, testConfig())

	req := withTestSession(httptest.NewRequest(http.MethodGet, "/bulk-order", nil))
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	body := rec.Body.String()
	testhelpers.AssertHTMLNotContains(t, body, "<!DOCTYPE html>")
	testhelpers.AssertHTMLContains(t, body, `id="bulk-order-page"`)
}

func TestHandleBulkOrderAddRow_NumbersAfterRowCount(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleBulkOrderAddRow(app)

	for _, tt := range []struct {
		rowCount string
		wantID   string
		notID    string
	}{
		{"", "sku_1", "sku_2"},
		{"0", "sku_1", "sku_2"},
		{"1", "sku_2", "sku_1"},
		{"5", "sku_6", "sku_5"},
	} {
		form := url.Values{}
		form.Set("row_count", tt.rowCount)
		req := httptest.NewRequest(http.MethodPost, "/bulk-order/rows", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()
		e := newTestRequestEvent(app, req, rec)

		if err := handler(e); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		body := rec.Body.String()
		testhelpers.AssertHTMLContains(t, body,
			`id="`+tt.wantID+`"`,
			`class="form-group data-row row ml-5 grid-field input-row"`,
			`type="number"`,
			`min="0"`,
			"required",
			`hx-swap-oob="true"`,
		)
		testhelpers.AssertHTMLNotContains(t, body, `id="`+tt.notID+`"`)
		if strings.Count(body, "input-row") != 1 {
			t.Errorf("row_count=%q: expected exactly one row in response", tt.rowCount)
		}
	}
}

func TestHandleBulkOrderAddRow_RepeatedAddsAreUnique(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleBulkOrderAddRow(app)

	seen := map[string]bool{}
	rowCount := 0
	for i := 0; i < 3; i++ {
		form := url.Values{}
		form.Set("row_count", strconv.Itoa(rowCount))
		req := httptest.NewRequest(http.MethodPost, "/bulk-order/rows", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		rowCount++
		id := "sku_" + strconv.Itoa(rowCount)
		if !strings.Contains(rec.Body.String(), `id="`+id+`"`) {
			t.Errorf("add %d: expected %s", i+1, id)
		}
		if seen[id] {
			t.Errorf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestHandleBulkOrderToggle_TwiceRestores(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleBulkOrderToggle(app, testConfig())

	toggle := func(view string) string {
		form := url.Values{}
		form.Set("view", view)
		form.Set("row_count", "2")
		form.Set("sku_1", "A1")
		form.Set("qty_1", "2")
		form.Set("sku_2", "")
		form.Set("qty_2", "")
		form.Set("bulk_paste", "B2\t5")
		req := withTestSession(httptest.NewRequest(http.MethodPost, "/bulk-order/toggle", strings.NewReader(form.Encode())))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()
		if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		return rec.Body.String()
	}

	once := toggle("line-by-line")
	testhelpers.AssertHTMLContains(t, once,
		`id="line-by-line-order" class="card" style="display: none"`,
		`id="bulk-order" class="card" style="display: block"`,
		"Build order line by line",
		`"view": "bulk-paste"`,
		`value="A1"`,
		`id="sku_2"`,
		"B2\t5",
	)

	twice := toggle("bulk-paste")
	testhelpers.AssertHTMLContains(t, twice,
		`id="line-by-line-order" class="card" style="display: block"`,
		`id="bulk-order" class="card" style="display: none"`,
		"Paste products and quantities",
		`"view": "line-by-line"`,
	)
}

func submitQuotation(t *testing.T, handlerFn func(*http.Request) *httptest.ResponseRecorder, form url.Values, csrf string) *httptest.ResponseRecorder {
	t.Helper()
	req := withTestSession(httptest.NewRequest(http.MethodPost, config.DefaultSubmitURL, strings.NewReader(form.Encode())))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	if csrf != "" {
		req.Header.Set("X-CSRF-Token", csrf)
	}
	return handlerFn(req)
}

func TestHandleCreateQuotation_Rows(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestCatalogItem(t, app, "A1", "Hex Bolt", 4.5)
	testhelpers.CreateTestCatalogItem(t, app, "B2", "Washer", 0.8)
	handler := HandleCreateQuotation(app, testConfig())
	run := func(req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		return rec
	}

	form := url.Values{}
	form.Set("is_processed", "false")
	form.Set("row_count", "2")
	form.Set("sku_1", "A1")
	form.Set("qty_1", "2")
	form.Set("sku_2", "B2")
	form.Set("qty_2", "5")

	rec := submitQuotation(t, run, form, testCSRFToken)
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/cart")

	cart, err := app.FindFirstRecordByData("carts", "session_token", testCartToken)
	if err != nil {
		t.Fatalf("cart not created: %v", err)
	}
	items := testhelpers.CartItems(t, app, cart.Id)
	if len(items) != 2 {
		t.Fatalf("expected 2 cart items, got %d", len(items))
	}
	if items[0].GetString("item_code") != "A1" || items[1].GetString("item_code") != "B2" {
		t.Errorf("unexpected cart order: %s, %s", items[0].GetString("item_code"), items[1].GetString("item_code"))
	}
	assertToastType(t, rec, "success")
}

func TestHandleCreateQuotation_PastedText(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestCatalogItem(t, app, "A1", "Hex Bolt", 4.5)
	testhelpers.CreateTestCatalogItem(t, app, "B2", "Washer", 0.8)
	handler := HandleCreateQuotation(app, testConfig())
	run := func(req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		return rec
	}

	form := url.Values{}
	form.Set("is_processed", "true")
	form.Set("bulk_paste", "A1,2\nB2,5")

	rec := submitQuotation(t, run, form, testCSRFToken)
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/cart")

	cart, err := app.FindFirstRecordByData("carts", "session_token", testCartToken)
	if err != nil {
		t.Fatalf("cart not created: %v", err)
	}
	if got := len(testhelpers.CartItems(t, app, cart.Id)); got != 2 {
		t.Errorf("expected 2 cart items, got %d", got)
	}
}

func TestHandleCreateQuotation_RedirectsEvenWhenLinesFail(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleCreateQuotation(app, testConfig())
	run := func(req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		return rec
	}

	form := url.Values{}
	form.Set("is_processed", "true")
	form.Set("bulk_paste", "UNKNOWN\t1")

	rec := submitQuotation(t, run, form, testCSRFToken)
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/cart")
	assertToastType(t, rec, "warning")

	// An empty paste is a request-level failure; it still ends on the cart page.
	form.Set("bulk_paste", "")
	rec = submitQuotation(t, run, form, testCSRFToken)
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/cart")
	assertToastType(t, rec, "error")
}

func TestHandleCreateQuotation_NonHTMXRedirect(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cfg := testConfig()
	cfg.CartPath = "/shop/cart"
	handler := HandleCreateQuotation(app, cfg)

	form := url.Values{}
	form.Set("is_processed", "true")
	form.Set("bulk_paste", "A1\t1")
	req := withTestSession(httptest.NewRequest(http.MethodPost, config.DefaultSubmitURL, strings.NewReader(form.Encode())))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-CSRF-Token", testCSRFToken)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Errorf("expected status 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/shop/cart" {
		t.Errorf("expected Location /shop/cart, got %q", loc)
	}
}

func TestHandleCreateQuotation_CSRF(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestCatalogItem(t, app, "A1", "Hex Bolt", 4.5)
	handler := HandleCreateQuotation(app, testConfig())
	run := func(req *http.Request) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		return rec
	}

	form := url.Values{}
	form.Set("is_processed", "true")
	form.Set("bulk_paste", "A1\t1")

	for name, token := range map[string]string{"missing": "", "wrong": "not-the-token"} {
		t.Run(name, func(t *testing.T) {
			rec := submitQuotation(t, run, form, token)
			if rec.Code != http.StatusForbidden {
				t.Errorf("expected status 403, got %d", rec.Code)
			}
			if rec.Header().Get("HX-Redirect") != "" {
				t.Error("expected no redirect for rejected request")
			}
		})
	}

	carts, _ := app.FindAllRecords("carts")
	if len(carts) != 0 {
		t.Errorf("expected no cart to be created, got %d", len(carts))
	}
}

func TestHandleBulkOrderImport_CSV(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleBulkOrderImport(app, testConfig())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "order.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write([]byte("SKU,Quantity\nA1,2\nB2,5\n"))
	mw.Close()

	req := withTestSession(httptest.NewRequest(http.MethodPost, "/bulk-order/import", &body))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		`id="bulk-order" class="card" style="display: block"`,
		"A1\t2\nB2\t5",
	)
}

func TestHandleBulkOrderImport_BadFile(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleBulkOrderImport(app, testConfig())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("file", "order.txt")
	fw.Write([]byte("whatever"))
	mw.Close()

	req := withTestSession(httptest.NewRequest(http.MethodPost, "/bulk-order/import", &body))
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
	if rec.Header().Get("HX-Reswap") != "none" {
		t.Error("expected HX-Reswap: none on error")
	}
}

func assertToastType(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	var parsed map[string]map[string]string
	if err := json.Unmarshal([]byte(rec.Header().Get("HX-Trigger")), &parsed); err != nil {
		t.Fatalf("HX-Trigger is not valid JSON: %v", err)
	}
	if got := parsed["showToast"]["type"]; got != want {
		t.Errorf("expected %s toast, got %q (%q)", want, got, parsed["showToast"]["message"])
	}
}

func TestHandleBulkOrderAddRow_RowLimit(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleBulkOrderAddRow(app)

	form := url.Values{}
	form.Set("row_count", strconv.Itoa(services.MaxOrderRows))
	req := httptest.NewRequest(http.MethodPost, "/bulk-order/rows", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "input-row") {
		t.Error("expected no row past the limit")
	}
	assertToastType(t, rec, "error")
}

func TestHandleCreateQuotation_QuoteDataField(t *testing.T) {
	tests := []struct {
		name        string
		quoteData   string
		isProcessed string
	}{
		{"structured", `[{"sku":"A1","qty":"2"},{"sku":"B2","qty":"5"}]`, "false"},
		{"pasted", "A1\t2\nB2\t5", "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testhelpers.NewTestApp(t)
			testhelpers.CreateTestCatalogItem(t, app, "A1", "Hex Bolt", 4.5)
			testhelpers.CreateTestCatalogItem(t, app, "B2", "Washer", 0.8)
			handler := HandleCreateQuotation(app, testConfig())
			run := func(req *http.Request) *httptest.ResponseRecorder {
				rec := httptest.NewRecorder()
				if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
					t.Fatalf("handler returned error: %v", err)
				}
				return rec
			}

			form := url.Values{}
			form.Set("quote_data", tt.quoteData)
			form.Set("is_processed", tt.isProcessed)

			rec := submitQuotation(t, run, form, testCSRFToken)
			testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/cart")
			assertToastType(t, rec, "success")

			cart, err := app.FindFirstRecordByData("carts", "session_token", testCartToken)
			if err != nil {
				t.Fatalf("cart not created: %v", err)
			}
			items := testhelpers.CartItems(t, app, cart.Id)
			if len(items) != 2 {
				t.Fatalf("expected 2 cart items, got %d", len(items))
			}
			if items[0].GetString("item_code") != "A1" || items[1].GetFloat("qty") != 5 {
				t.Errorf("unexpected cart lines: %s, %s x %v",
					items[0].GetString("item_code"), items[1].GetString("item_code"), items[1].GetFloat("qty"))
			}
		})
	}
}

func TestHandleCreateQuotation_RowsWithoutUsableRowCount(t *testing.T) {
	for _, rowCount := range []string{"", "4611686018427387904"} {
		t.Run("row_count="+rowCount, func(t *testing.T) {
			app := testhelpers.NewTestApp(t)
			testhelpers.CreateTestCatalogItem(t, app, "A1", "Hex Bolt", 4.5)
			handler := HandleCreateQuotation(app, testConfig())
			run := func(req *http.Request) *httptest.ResponseRecorder {
				rec := httptest.NewRecorder()
				if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
					t.Fatalf("handler returned error: %v", err)
				}
				return rec
			}

			form := url.Values{}
			form.Set("is_processed", "false")
			if rowCount != "" {
				form.Set("row_count", rowCount)
			}
			form.Set("sku_1", "A1")
			form.Set("qty_1", "3")

			rec := submitQuotation(t, run, form, testCSRFToken)
			testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/cart")

			cart, err := app.FindFirstRecordByData("carts", "session_token", testCartToken)
			if err != nil {
				t.Fatalf("cart not created: %v", err)
			}
			items := testhelpers.CartItems(t, app, cart.Id)
			if len(items) != 1 || items[0].GetFloat("qty") != 3 {
				t.Errorf("expected A1 x 3 in the cart, got %d line(s)", len(items))
			}
		})
	}
}

func TestHandleCreateQuotation_MalformedBodyStillRedirects(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleCreateQuotation(app, testConfig())

	req := withTestSession(httptest.NewRequest(http.MethodPost, config.DefaultSubmitURL,
		strings.NewReader("is_processed=true&bulk_paste=%zz")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	req.Header.Set("X-CSRF-Token", testCSRFToken)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/cart")
	assertToastType(t, rec, "error")
}
