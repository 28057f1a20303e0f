package court

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"clubdesk/internal/pricing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourtRequest_Validation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/", func(c *gin.Context) {
		var req CourtRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, req)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Name")
	assert.Contains(t, w.Body.String(), "required")
}

func TestPriceTable_RoundTrip(t *testing.T) {
	in := PriceTable{"member": 20000, "coach": 15000}

	v, err := in.Value()
	require.NoError(t, err)

	var out PriceTable
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)

	var empty Discounts
	require.NoError(t, empty.Scan(nil))
	assert.Nil(t, empty)
}

func TestDiscounts_ScanString(t *testing.T) {
	var d Discounts
	require.NoError(t, d.Scan(`[{"start_hour":18,"end_hour":20,"percent":20}]`))
	assert.Equal(t, Discounts{{StartHour: 18, EndHour: 20, Percent: 20}}, d)

	assert.Error(t, d.Scan(42))
}

func TestCourt_Rates(t *testing.T) {
	heat := int64(5000)
	c := Court{
		PriceTable:          PriceTable{"member": 10000},
		HeatingCentsPerHour: &heat,
		Discounts:           Discounts{{StartHour: 8, EndHour: 10, Percent: 10}},
		SlotInterval:        60,
	}

	r := c.Rates()
	assert.Equal(t, 60, r.Interval)
	assert.Equal(t, &heat, r.HeatingPerHour)
	assert.Nil(t, r.LightingPerHour)

	b, err := pricing.TotalPrice(r, []string{"08:00"}, "member", pricing.AddOns{Heater: true})
	require.NoError(t, err)
	assert.Equal(t, int64(9000+5000), b.Total)
}
