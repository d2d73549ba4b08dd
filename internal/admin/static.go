package admin

import "net/http"

func serveCSS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css")
	_, _ = w.Write([]byte(`body{font-family:system-ui,Segoe UI,Roboto,Arial,sans-serif;margin:0;background:#f5f6f8;color:#1f2328}
a{color:#0b5cad;text-decoration:none} a:hover{text-decoration:underline}
header{padding:12px 20px;border-bottom:1px solid #d8dbe0;background:#fff;display:flex;gap:20px;align-items:center}
header nav a{padding:6px 10px;border-radius:6px} header nav a.active{background:#e7eefc;font-weight:600}
.container{max-width:1400px;margin:0 auto;padding:20px}
table{width:100%;border-collapse:collapse;border:1px solid #d8dbe0;background:#fff}
th,td{padding:8px;border-bottom:1px solid #e4e6ea;text-align:left;vertical-align:top} th{background:#eef0f3}
tr.ok td{background:#d4edda}
.btn{display:inline-block;padding:8px 12px;border:1px solid #c4c8cf;background:#fff;color:#1f2328;border-radius:6px;cursor:pointer}
.btn-primary{background:#2563eb;border-color:#2563eb;color:#fff}
input,select{width:100%;box-sizing:border-box;padding:6px;border:1px solid #c4c8cf;border-radius:6px;background:#fff}
.metrics{display:grid;grid-template-columns:repeat(3,1fr);gap:16px;margin:16px 0}
.metric{background:#fff;border:1px solid #d8dbe0;border-radius:10px;padding:16px} .metric b{display:block;font-size:2em}
.cards{display:grid;grid-template-columns:repeat(4,1fr);gap:16px}
.card{border:1px solid #e0e0e0;border-radius:10px;padding:15px;box-shadow:0 4px 6px rgba(0,0,0,.04);background:#fff;text-align:center}
.card.ok{background:#d4edda} .card h3{margin:0 0 10px}
.badge{display:inline-block;width:10px;height:10px;border-radius:50%;margin-right:6px;background:#999}
.badge.ok,.ping.online::before{background:#1e8e3e} .badge.nok,.ping.offline::before{background:#d93025}
.ping::before{content:"";display:inline-block;width:10px;height:10px;border-radius:50%;margin-right:6px;background:#bbb}
.notice{padding:10px 14px;border-radius:6px;background:#e6f4ea;border:1px solid #b7dfc2;margin-bottom:16px}
.error{padding:10px 14px;border-radius:6px;background:#fce8e6;border:1px solid #f4b8b0;margin-bottom:16px}
.info{padding:10px 14px;border-radius:6px;background:#e8f0fe;border:1px solid #c6d7f9;margin-bottom:16px}
.overlay{position:fixed;inset:0;background:rgba(0,0,0,.45);display:flex;align-items:center;justify-content:center}
.modal{background:#fff;border-radius:10px;padding:20px;width:min(720px,92vw);max-height:90vh;overflow:auto}
.modal h2{text-align:center;border-bottom:2px solid #eee;padding-bottom:10px}
.grid{display:grid;grid-template-columns:1fr 1fr;gap:15px;margin-top:20px}
.item{background:#f8f9fa;padding:10px;border-radius:5px} .item.wide{grid-column:1/-1}
code{background:#e9ecef;padding:2px 4px;border-radius:3px}
.small{opacity:.7;font-size:.9em} progress{width:100%}`))
}

func serveJS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	_, _ = w.Write([]byte(`// Streams the batch probe so the operator sees progress; without fetch
// streaming the form posts to /admin/probe instead.
function probeAll(ev, form){
  const bar=document.getElementById('probe-progress'), txt=document.getElementById('probe-text');
  if(!window.fetch||!window.TextDecoder||!window.ReadableStream||!bar){return}
  ev.preventDefault();
  const btn=form.querySelector('button'); btn.disabled=true; bar.hidden=false;
  txt.textContent='Pinging equipment...';
  const q=form.querySelector('input[name=q]').value;
  (async()=>{
    const r=await fetch('/admin/api/probe',{method:'POST'});
    const rd=r.body.getReader(), dec=new TextDecoder(); let buf='';
    for(;;){
      const {value,done}=await rd.read(); if(done)break;
      buf+=dec.decode(value,{stream:true});
      let i;
      while((i=buf.indexOf('\n'))>=0){
        const line=buf.slice(0,i); buf=buf.slice(i+1); if(!line)continue;
        const m=JSON.parse(line);
        if(m.total){bar.max=m.total; bar.value=m.done; txt.textContent='Pinging '+m.address+'... ('+m.done+'/'+m.total+')'}
      }
    }
    const back=new URLSearchParams({notice:'probed'}); if(q)back.set('q',q);
    location.href='/admin/dashboard?'+back.toString();
  })().catch(()=>form.submit());
}
`))
}
