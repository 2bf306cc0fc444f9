package render

// documentTemplate is the html/template for every rendered slide document.
// Values interpolated inside <script> are JS-escaped by html/template.
const documentTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  {{if .Title}}<title>{{.Title}}</title>{{end}}
  {{if .StylesheetURL}}<script src="{{.StylesheetURL}}"></script>{{end}}
  <style>
    body {
      margin: 0;
      width: 100vw;
      height: 100vh;
      overflow: hidden;
      background-color: {{if .Present}}#000000{{else}}#2d3748{{end}};
    }
    #slide-content-wrapper {
      transform-origin: top left;
      background-color: #ffffff;
    }
  </style>
</head>
<body>
  <div id="slide-content-wrapper">
{{.Content}}
  </div>
  <script>
    (function() {
      var manualZoom = {{.Scale}};
      var presentMode = {{.Present}};

      function footprint(wrapper) {
        var width = 1280, height = 720;
        var el = wrapper.querySelector('.slide-container');
        if (!el && presentMode) el = wrapper.children[0];
        if (!el) return [width, height];
        var cs = window.getComputedStyle(el);
        var w = parseFloat(cs.width), h = parseFloat(cs.height), minH = parseFloat(cs.minHeight);
        if (!isNaN(w) && w > 0) width = w;
        if (!isNaN(h) && h > 0) height = h;
        else if (!isNaN(minH) && minH > 0) height = minH;
        return [width, height];
      }

      function applyScaling() {
        var wrapper = document.getElementById('slide-content-wrapper');
        var body = document.body;
        if (!wrapper || !body) return;

        var size = footprint(wrapper);
        wrapper.style.width = size[0] + 'px';
        wrapper.style.height = size[1] + 'px';

        var vw = body.clientWidth, vh = body.clientHeight;
        var factor = Math.min(vw / size[0], vh / size[1]) * 0.98 * manualZoom;
        wrapper.style.transform = 'scale(' + factor + ')';
        wrapper.style.marginLeft = (vw - size[0] * factor) / 2 + 'px';
        wrapper.style.marginTop = (vh - size[1] * factor) / 2 + 'px';
      }

      function debounce(fn, wait) {
        var t;
        return function() {
          clearTimeout(t);
          t = setTimeout(fn, wait);
        };
      }
      var debounced = debounce(applyScaling, 150);

      window.addEventListener('load', function() {
        applyScaling();
        setTimeout(applyScaling, 100);
        setTimeout(applyScaling, 500);
      });
      window.addEventListener('resize', debounced);

      var observed = document.getElementById('slide-content-wrapper');
      if (observed) {
        new MutationObserver(function(records) {
          for (var i = 0; i < records.length; i++) {
            var r = records[i];
            if (r.type === 'childList' ||
                (r.type === 'attributes' && (r.target === observed ||
                  (r.target.classList && r.target.classList.contains('slide-container'))))) {
              debounced();
              break;
            }
          }
        }).observe(observed, {childList: true, subtree: true, attributes: true, attributeFilter: ['style', 'class', 'id']});
      }
    })();
  </script>
{{if .Preview}}
  <script>
    (function() {
      var surface = {{.SurfaceID}};
      var blockTags = ['P', 'H1', 'H2', 'H3', 'H4', 'H5', 'H6', 'LI', 'BLOCKQUOTE', 'PRE', 'FIGURE',
        'ARTICLE', 'SECTION', 'ASIDE', 'HEADER', 'FOOTER', 'NAV', 'MAIN', 'TABLE', 'UL', 'OL', 'IMG', 'BUTTON', 'A'];

      function pick(target) {
        var current = target;
        for (var i = 0; i < 7 && current && current !== document.body; i++) {
          var tag = current.tagName.toUpperCase();
          if (blockTags.indexOf(tag) >= 0) return current;
          if (tag === 'DIV' && (current.parentElement === document.body ||
              current.classList.length > 0 || Object.keys(current.dataset).length > 0)) {
            return current;
          }
          if (!current.parentElement) break;
          current = current.parentElement;
        }
        return target;
      }

      document.body.addEventListener('click', function(event) {
        var chosen = pick(event.target);
        if (!chosen || chosen === document.body) return;
        window.parent.postMessage({
          type: {{.MessageType}},
          surface: surface,
          tagName: chosen.tagName,
          outerHTML: chosen.outerHTML
        }, '*');
      }, true);
    })();
  </script>
{{end}}
</body>
</html>
`
