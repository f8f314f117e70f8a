// Package webx はレスポンス封筒とエラー変換ミドルウェアを提供します。
package webx

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope は成功レスポンスの共通形式です。
type Envelope struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// OK は 200 の成功レスポンスを書き込みます。
func OK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Envelope{
		Status:  http.StatusOK,
		Code:    "OK",
		Message: message,
		Data:    data,
	})
}

// Created は 201 の成功レスポンスを書き込みます。
func Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, Envelope{
		Status:  http.StatusCreated,
		Code:    "CREATED",
		Message: message,
		Data:    data,
	})
}
