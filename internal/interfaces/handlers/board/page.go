package board

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Yard Sale Board</title>
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <style>
    body { font-family: system-ui, sans-serif; margin: 0; color: #1f2937; background: #f9fafb; }
    header { display: flex; justify-content: space-between; align-items: center; padding: 12px 20px; background: #14532d; color: #fff; }
    header button { background: #facc15; border: 0; padding: 8px 14px; border-radius: 6px; font-weight: 700; cursor: pointer; }
    .notice { background: #ecfccb; padding: 10px 20px; }
    main { display: grid; grid-template-columns: 1fr 1fr; gap: 16px; padding: 16px 20px; }
    #map { min-height: 520px; border-radius: 8px; background: #e5e7eb; }
    form.filters { display: flex; gap: 8px; margin-bottom: 12px; }
    .card { display: flex; gap: 12px; background: #fff; border-radius: 8px; padding: 10px; margin-bottom: 10px; box-shadow: 0 1px 2px rgba(0,0,0,.08); }
    .card.featured { border: 2px solid #facc15; }
    .card img { width: 80px; height: 80px; object-fit: cover; border-radius: 6px; }
    .meta { color: #6b7280; font-size: 13px; }
    .badge { background: #facc15; border-radius: 4px; padding: 1px 6px; font-size: 12px; font-weight: 700; }
    #create { background: #fff; border-radius: 8px; padding: 12px; margin-top: 16px; }
    #create input, #create textarea, #create select { display: block; width: 100%; margin-bottom: 6px; }
    @media (max-width: 800px) { main { grid-template-columns: 1fr; } }
  </style>
</head>
<body>
  <header>
    <strong>Yard Sale Board</strong>
    <button id="sponsor">Sponsor local deals ({{price .SponsorPriceCents}}/mo)</button>
  </header>
  {{if .Notice}}<div class="notice">{{.Notice}}</div>{{end}}
  <main>
    <section>
      <form class="filters" method="get" action="/">
        <input name="q" placeholder="Search" value="{{.View.Filter.Query}}">
        <select name="category">
          <option value="">All categories</option>
          {{range .View.Categories}}<option value="{{.}}"{{if eq . $.View.Filter.Category}} selected{{end}}>{{.}}</option>{{end}}
        </select>
        <input type="date" name="date" value="{{.View.Filter.Date}}">
        <button type="submit">Filter</button>
      </form>
      <p class="meta">{{len .View.Cards}} of {{.View.Total}} listings</p>
      {{range .View.Cards}}
      <article class="card{{if .Featured}} featured{{end}}" data-id="{{.ID}}">
        <img src="{{.PhotoURL}}" alt="">
        <div>
          <h3>{{.Title}} {{if .Featured}}<span class="badge">Featured</span>{{end}}</h3>
          <div class="meta">{{.DateLine}} · {{.Category}}</div>
          <div class="meta">{{.Address}}</div>
          <p>{{.Description}}</p>
          {{if .Contact}}<div class="meta">Contact: {{.Contact}}</div>{{end}}
          {{if .FeatureLabel}}<button class="feature" data-id="{{.ID}}">{{.FeatureLabel}}</button>{{end}}
        </div>
      </article>
      {{else}}
      <p>No listings match.</p>
      {{end}}
      <form id="create">
        <h3>Post a sale</h3>
        <input name="title" placeholder="Title" maxlength="80" required>
        <input name="address" placeholder="Address" required>
        <input name="category" placeholder="Category" value="Garage Sale" required>
        <input name="date" type="date" required>
        <input name="timeStart" type="time">
        <input name="timeEnd" type="time">
        <input name="contact" placeholder="Contact">
        <textarea name="description" maxlength="600" placeholder="Description"></textarea>
        <input name="lat" type="hidden"><input name="lng" type="hidden">
        {{if .UploadsEnabled}}<input name="photo" type="file" accept="image/*">{{end}}
        <button type="submit">Post listing</button>
      </form>
    </section>
    <section id="map"></section>
  </main>
  <script>
    const API = {{.APIBase}};
    const FEATURE_PRICE = {{.FeaturePriceCents}};
    const MARKERS = {{.View.Markers}};
    const CENTER = {{.View.Center}};
    const BOUNDS = {{.View.Bounds}};

    async function call(path, body) {
      const res = await fetch(API + path, { method: "POST", headers: { "Content-Type": "application/json" }, body: JSON.stringify(body || {}) });
      const data = await res.json().catch(() => ({}));
      if (!res.ok) throw new Error(data.error || res.statusText);
      return data;
    }

    document.querySelectorAll("button.feature").forEach((b) => b.addEventListener("click", async () => {
      try { location.href = (await call("/create-checkout-session", { listingId: b.dataset.id, amountCents: FEATURE_PRICE })).url; }
      catch (e) { alert(e.message); }
    }));
    document.getElementById("sponsor").addEventListener("click", async () => {
      try { location.href = (await call("/create-subscription")).url; } catch (e) { alert(e.message); }
    });

    document.getElementById("create").addEventListener("submit", async (ev) => {
      ev.preventDefault();
      const f = new FormData(ev.target);
      const body = Object.fromEntries([...f.entries()].filter(([k]) => k !== "photo"));
      body.lat = body.lat ? Number(body.lat) : null;
      body.lng = body.lng ? Number(body.lng) : null;
      try {
        const photo = f.get("photo");
        if (photo && photo.size) {
          const up = await call("/upload-photo", { fileName: photo.name });
          await fetch(up.uploadUrl, { method: "PUT", body: photo });
          body.photoUrl = up.publicUrl;
        }
        await call("/create-listing", body);
        location.reload();
      } catch (e) { alert(e.message); }
    });

    window.initMap = function () {
      const map = new google.maps.Map(document.getElementById("map"), { center: CENTER, zoom: 11 });
      for (const m of MARKERS) {
        const opts = { position: m.position, map, title: m.title };
        if (m.style === "dot") {
          opts.icon = { path: google.maps.SymbolPath.CIRCLE, scale: 6, fillColor: "#6b7280", fillOpacity: 1, strokeWeight: 1 };
        }
        const marker = new google.maps.Marker(opts);
        const content = document.createElement("div");
        for (const line of [m.title, m.dateLine, m.address]) {
          const d = document.createElement("div");
          d.textContent = line;
          content.appendChild(d);
        }
        const info = new google.maps.InfoWindow({ content });
        marker.addListener("click", () => info.open({ map, anchor: marker }));
      }
      if (BOUNDS) {
        map.fitBounds({ south: BOUNDS.south, west: BOUNDS.west, north: BOUNDS.north, east: BOUNDS.east });
        google.maps.event.addListenerOnce(map, "idle", () => { if (map.getZoom() > 15) map.setZoom(15); });
      }
      const geocoder = new google.maps.Geocoder();
      const form = document.getElementById("create");
      form.address.addEventListener("change", () => geocoder.geocode({ address: form.address.value }, (res, status) => {
        if (status === "OK" && res[0]) {
          form.lat.value = res[0].geometry.location.lat();
          form.lng.value = res[0].geometry.location.lng();
        }
      }));
    };
  </script>
  {{if .MapsAPIKey}}<script async src="https://maps.googleapis.com/maps/api/js?key={{.MapsAPIKey}}&callback=initMap"></script>{{end}}
</body>
</html>
`
