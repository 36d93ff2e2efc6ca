package domns

import (
	"context"
	"errors"
	"net/http"

	"github.com/everFinance/domns/common"
	"github.com/everFinance/domns/schema"
	"github.com/gin-gonic/gin"
)

func (d *Domns) runAPI(port string) {
	r := d.engine
	r.Use(common.CORSMiddleware())
	d.registerRoutes(r)

	if err := r.Run(port); err != nil {
		panic(err)
	}
}

func (d *Domns) registerRoutes(r gin.IRouter) {
	v1 := r.Group("/")
	{
		v1.GET("/view", d.getView)
		v1.GET("/domains", d.getDomains)
		v1.POST("/refresh", d.postRefresh)

		v1.PUT("/input/domain", d.putDomainInput)
		v1.PUT("/input/record", d.putRecordInput)
		v1.POST("/edit/cancel", d.postCancelEdit)
		v1.POST("/edit/start/:name", d.postStartEdit)
		v1.POST("/notice/dismiss", d.postDismissNotice)

		// wallet prompts and transactions
		v2 := v1.Group("/")
		{
			v2.Use(common.LimiterMiddleware(d.rateLimit, "M"))
			v2.POST("/connect", d.postConnect)
			v2.POST("/network/switch", d.postSwitchNetwork)
			v2.POST("/mint", d.postMint)
			v2.POST("/update", d.postUpdate)
		}
	}
}

// detach keeps wallet prompts and confirmation waits alive when the http client goes away.
func detach(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func errorStatus(err error) int {
	if errors.Is(err, schema.ErrLoading) {
		return http.StatusConflict
	}
	if errors.Is(err, schema.ErrNotExist) {
		return http.StatusNotFound
	}
	switch schema.KindOf(err) {
	case schema.UserInputError:
		if errors.Is(err, schema.ErrWrongNetwork) || errors.Is(err, schema.ErrNotConnected) {
			return http.StatusPreconditionFailed
		}
		return http.StatusBadRequest
	case schema.EnvironmentMissing:
		return http.StatusPreconditionFailed
	case schema.TransactionRejectedOrFailed, schema.ReadFailure:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func errorJSON(c *gin.Context, err error) {
	c.JSON(errorStatus(err), schema.RespErr{
		Err:  err.Error(),
		Kind: schema.KindOf(err),
	})
}

func (d *Domns) getView(c *gin.Context) {
	c.JSON(http.StatusOK, d.View())
}

func (d *Domns) getDomains(c *gin.Context) {
	if by, err := d.cache.Cache.Get(schema.ListingCacheKey); err == nil {
		c.Data(http.StatusOK, gin.MIMEJSON+"; charset=utf-8", by)
		return
	}
	c.JSON(http.StatusOK, d.Records())
}

func (d *Domns) postRefresh(c *gin.Context) {
	if err := d.Refresh(detach(c)); err != nil {
		errorJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, d.View())
}

func (d *Domns) bindInput(c *gin.Context) (string, bool) {
	req := schema.ReqInput{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, schema.RespErr{Err: "err_invalid_params", Kind: schema.UserInputError})
		return "", false
	}
	return req.Value, true
}

func (d *Domns) putDomainInput(c *gin.Context) {
	v, ok := d.bindInput(c)
	if !ok {
		return
	}
	d.SetDomainInput(v)
	c.JSON(http.StatusOK, d.View())
}

func (d *Domns) putRecordInput(c *gin.Context) {
	v, ok := d.bindInput(c)
	if !ok {
		return
	}
	d.SetRecordInput(v)
	c.JSON(http.StatusOK, d.View())
}

func (d *Domns) postStartEdit(c *gin.Context) {
	if err := d.StartEdit(c.Param("name")); err != nil {
		errorJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, d.View())
}

func (d *Domns) postCancelEdit(c *gin.Context) {
	d.CancelEdit()
	c.JSON(http.StatusOK, d.View())
}

func (d *Domns) postDismissNotice(c *gin.Context) {
	d.DismissNotice()
	c.JSON(http.StatusOK, d.View())
}

func (d *Domns) postConnect(c *gin.Context) {
	d.Connect(detach(c))
	c.JSON(http.StatusOK, d.View())
}

func (d *Domns) postSwitchNetwork(c *gin.Context) {
	if err := d.SwitchNetwork(detach(c)); err != nil {
		errorJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, d.View())
}

func (d *Domns) postMint(c *gin.Context) {
	if _, err := d.MintDomain(detach(c)); err != nil {
		errorJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, d.View())
}

func (d *Domns) postUpdate(c *gin.Context) {
	if err := d.UpdateDomain(detach(c)); err != nil {
		errorJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, d.View())
}
