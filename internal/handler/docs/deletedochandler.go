// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package docs

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"habitual-api/internal/errorx"
	"habitual-api/internal/logic/docs"
	"habitual-api/internal/svc"
	"habitual-api/internal/types"
)

func DeleteDocHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.DeleteDocReq
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, errorx.BadRequest(err.Error()))
			return
		}

		l := docs.NewDeleteDocLogic(r.Context(), svcCtx)
		resp, err := l.DeleteDoc(&req)
		if err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
		} else {
			httpx.OkJsonCtx(r.Context(), w, resp)
		}
	}
}
