package site

// indexTemplate lists the exported slides.
const indexTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>
    body { font-family: system-ui, sans-serif; background: #1a202c; color: #e2e8f0; margin: 0; padding: 2rem; }
    h1 { margin-top: 0; }
    a { color: #90cdf4; }
    .present { display: inline-block; margin-bottom: 1.5rem; padding: .5rem 1rem; background: #3182ce; color: #fff; border-radius: .375rem; text-decoration: none; }
    ol { line-height: 1.8; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <a class="present" href="present.html#1">Present</a>
  <ol>
    {{range .Slides}}<li><a href="present.html#{{.Number}}">{{.Title}}</a> <small>(<a href="{{.File}}">standalone</a>)</small></li>
    {{end}}
  </ol>
</body>
</html>`

// playerTemplate steps through the slide documents in an iframe. Arrow
// keys navigate, F toggles fullscreen, Escape returns to the index.
const playerTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}}</title>
  <style>
    html, body { margin: 0; height: 100%; background: #000; overflow: hidden; }
    iframe { border: 0; width: 100%; height: 100%; display: block; }
    #counter { position: fixed; bottom: 1rem; right: 1rem; color: #fff; background: rgba(0,0,0,.5); padding: .25rem .75rem; border-radius: 9999px; font: 14px system-ui, sans-serif; transition: opacity .3s; }
    body.idle #counter { opacity: 0; }
  </style>
</head>
<body>
  <iframe id="frame" title="slide"></iframe>
  <div id="counter"></div>
  <script>
  (function() {
    var files = {{.Files}};
    var frame = document.getElementById("frame");
    var counter = document.getElementById("counter");
    var idle = null;
    var index = 0;

    function show(i) {
      index = Math.max(0, Math.min(i, files.length - 1));
      frame.src = files[index];
      counter.textContent = (index + 1) + " / " + files.length;
      if (location.hash !== "#" + (index + 1)) {
        history.replaceState(null, "", "#" + (index + 1));
      }
      wake();
    }

    function wake() {
      document.body.classList.remove("idle");
      clearTimeout(idle);
      idle = setTimeout(function() { document.body.classList.add("idle"); }, 3000);
    }

    function fromHash() {
      var n = parseInt(location.hash.slice(1), 10);
      return isNaN(n) ? 0 : n - 1;
    }

    function onKey(e) {
      if (e.key === "ArrowRight" || e.key === " ") { show(index + 1); e.preventDefault(); }
      else if (e.key === "ArrowLeft") { show(index - 1); e.preventDefault(); }
      else if (e.key === "f" || e.key === "F") {
        if (document.fullscreenElement) { document.exitFullscreen(); }
        else { document.documentElement.requestFullscreen(); }
      }
      else if (e.key === "Escape" && !document.fullscreenElement) { location.href = "index.html"; }
    }

    document.addEventListener("keydown", onKey);
    document.addEventListener("mousemove", wake);
    frame.addEventListener("load", function() {
      try { frame.contentWindow.document.addEventListener("keydown", onKey); } catch (err) {}
    });
    window.addEventListener("hashchange", function() { show(fromHash()); });
    show(fromHash());
  })();
  </script>
</body>
</html>`
