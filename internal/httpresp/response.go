package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Envelope struct {
	Data any `json:"data"`
}

type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Data: data})
}

func List[T any](c *gin.Context, data []T) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}

func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"message": message})
}
