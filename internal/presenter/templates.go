package presenter

const prefixToken = "@prefix@"

const templateSource = `
{{define "list"}}{{range .}}<article class="card @prefix@-card" data-@prefix@-slug="{{.Slug}}"><header class="@prefix@-header"><h3 class="@prefix@-title"><a href="{{.URL}}" class="@prefix@-link">{{.Title}}</a></h3><time class="@prefix@-date" datetime="{{.ISODate}}">{{.DisplayDate}}</time></header><div class="@prefix@-summary"><p>{{.Summary}}</p></div></article>{{end}}{{end}}

{{define "empty"}}<div class="card content"><p>아직 등록된 {{.Subject}} 없습니다.</p><p class="small">곧 새로운 {{.Object}} 공유할 예정입니다.</p></div>{{end}}

{{define "loading"}}<div class="card content"><p>{{.Noun}} 목록을 불러오는 중...</p></div>{{end}}

{{define "error"}}<div class="card content"><p>{{.Noun}} 목록을 불러오는 중 오류가 발생했습니다.</p>{{with .Message}}<p class="small">{{.}}</p>{{end}}{{with .LastUpdated}}<p class="small">마지막 업데이트: {{.}}</p>{{end}}<p class="small">잠시 후 다시 시도해주세요.</p></div>{{end}}

{{define "detail"}}<article class="card @prefix@-detail" data-@prefix@-slug="{{.Slug}}"><header class="@prefix@-detail-header"><div class="@prefix@-detail-meta">{{with .Category}}<span class="@prefix@-category">{{.}}</span>{{end}}<time class="@prefix@-detail-date" datetime="{{.ISODate}}">{{.DisplayDate}}</time></div><h1 class="@prefix@-detail-title">{{.Title}}</h1>{{with .Summary}}<p class="@prefix@-detail-summary">{{.}}</p>{{end}}</header>{{with .Image}}<div class="@prefix@-image"><img src="{{.}}" alt="{{$.Title}}" loading="lazy"></div>{{end}}<div class="@prefix@-detail-body">{{.Body}}</div><footer class="@prefix@-detail-footer"><a href="{{.ListURL}}" class="btn">목록으로 돌아가기</a></footer></article>{{end}}

{{define "unpublished"}}<div class="card content"><p>이 {{.Topic}} 공개되지 않았습니다.</p><a href="{{.ListURL}}" class="btn">목록으로 돌아가기</a></div>{{end}}

{{define "detail_error"}}<div class="card content"><p>{{.Noun}} 상세 내용을 불러오는 중 오류가 발생했습니다.</p>{{with .Message}}<p class="small">{{.}}</p>{{end}}<a href="{{.ListURL}}" class="btn">목록으로 돌아가기</a></div>{{end}}

{{define "not_found"}}<div class="card content"><h2>{{.Object}} 찾을 수 없습니다</h2><p>요청하신 {{.Subject}} 존재하지 않거나 삭제되었을 수 있습니다.</p>{{with .Message}}<p class="small">{{.}}</p>{{end}}<a href="{{.ListURL}}" class="btn">목록으로 돌아가기</a></div>{{end}}
`
